package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in process memory. It backs development runs
// and tests; nothing survives a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Record
	ids         *idSource
	now         func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Record),
		ids:         newIDSource(),
		now:         time.Now,
	}
}

// Name implements Gateway.
func (m *MemoryStore) Name() string {
	return BackendMemory
}

// Insert implements Gateway.
func (m *MemoryStore) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap("insert", collection, err)
	}

	now := m.now()
	id, err := m.ids.next(now)
	if err != nil {
		return "", wrap("insert", collection, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], Record{ID: id, Fields: stamp(fields, now)})

	return id, nil
}

// QueryRecent implements Gateway. Records missing orderField are skipped.
func (m *MemoryStore) QueryRecent(ctx context.Context, collection, orderField string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("query", collection, err)
	}
	if limit <= 0 {
		return []Record{}, nil
	}

	type keyed struct {
		key string
		rec Record
	}

	m.mu.RLock()
	candidates := make([]keyed, 0, len(m.collections[collection]))
	for _, rec := range m.collections[collection] {
		key, ok := orderKey(rec.Fields[orderField])
		if !ok {
			continue
		}
		candidates = append(candidates, keyed{key: key, rec: copyRecord(rec)})
	}
	m.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].key != candidates[j].key {
			return candidates[i].key > candidates[j].key
		}
		return candidates[i].rec.ID > candidates[j].rec.ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]Record, len(candidates))
	for i, c := range candidates {
		out[i] = c.rec
	}
	return out, nil
}

// Count returns the number of records in collection.
func (m *MemoryStore) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

// Ping implements Gateway.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close implements Gateway.
func (m *MemoryStore) Close() error {
	return nil
}

func copyRecord(rec Record) Record {
	fields := make(Fields, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}
	return Record{ID: rec.ID, Fields: fields}
}
