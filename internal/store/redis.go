package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists records in Redis.
//
// A record is a JSON string at doc:{collection}:{id}. Each timestamp field
// is indexed in the sorted set idx:{collection}:{field} scored by unix
// microseconds. Both writes go through one MULTI/EXEC.
type RedisStore struct {
	client *redis.Client
	ids    *idSource
	now    func() time.Time
}

// NewRedisStore connects to Redis at redisURL and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return newRedisStore(client), nil
}

func newRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ids: newIDSource(), now: time.Now}
}

// Name implements Gateway.
func (s *RedisStore) Name() string {
	return BackendRedis
}

func redisDocKey(collection, id string) string {
	return "doc:" + collection + ":" + id
}

func redisIndexKey(collection, field string) string {
	return "idx:" + collection + ":" + field
}

// Insert implements Gateway.
func (s *RedisStore) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap("insert", collection, err)
	}

	now := s.now()
	id, err := s.ids.next(now)
	if err != nil {
		return "", wrap("insert", collection, err)
	}

	stamped := stamp(fields, now)
	data, err := encodeFields(stamped)
	if err != nil {
		return "", wrap("insert", collection, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisDocKey(collection, id), data, 0)
		for field, t := range timeFields(stamped) {
			pipe.ZAdd(ctx, redisIndexKey(collection, field), redis.Z{
				Score:  float64(t.UnixMicro()),
				Member: id,
			})
		}
		return nil
	})
	if err != nil {
		return "", wrap("insert", collection, err)
	}

	return id, nil
}

// QueryRecent implements Gateway. Equal scores come back in descending
// member order, which for ULIDs is reverse insertion order.
func (s *RedisStore) QueryRecent(ctx context.Context, collection, orderField string, limit int) ([]Record, error) {
	records := []Record{}
	if limit <= 0 {
		return records, nil
	}

	ids, err := s.client.ZRevRange(ctx, redisIndexKey(collection, orderField), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, wrap("query", collection, err)
	}
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisDocKey(collection, id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, wrap("query", collection, err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, wrap("query", collection, fmt.Errorf("index points at missing record %s", ids[i]))
		}
		fields, err := decodeFields([]byte(raw))
		if err != nil {
			return nil, wrap("query", collection, err)
		}
		records = append(records, Record{ID: ids[i], Fields: fields})
	}

	return records, nil
}

// Ping implements Gateway.
func (s *RedisStore) Ping(ctx context.Context) error {
	return wrap("ping", "", s.client.Ping(ctx).Err())
}

// Close implements Gateway.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
