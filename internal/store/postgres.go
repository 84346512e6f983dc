package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists records as JSONB rows of the documents table.
type PostgresStore struct {
	pool *pgxpool.Pool
	ids  *idSource
	now  func() time.Time
}

// NewPostgresStore creates a connection pool for databaseURL and verifies
// the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool, ids: newIDSource(), now: time.Now}, nil
}

// Name implements Gateway.
func (p *PostgresStore) Name() string {
	return BackendPostgres
}

// Insert implements Gateway.
func (p *PostgresStore) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap("insert", collection, err)
	}

	now := p.now()
	id, err := p.ids.next(now)
	if err != nil {
		return "", wrap("insert", collection, err)
	}

	data, err := encodeFields(stamp(fields, now))
	if err != nil {
		return "", wrap("insert", collection, err)
	}

	query := `
		INSERT INTO documents (collection, id, fields, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := p.pool.Exec(ctx, query, collection, id, string(data), now.UTC()); err != nil {
		return "", wrap("insert", collection, err)
	}

	return id, nil
}

// QueryRecent implements Gateway. Timestamps are stored as fixed-width UTC
// text, so ordering uses the C collation to compare bytes.
func (p *PostgresStore) QueryRecent(ctx context.Context, collection, orderField string, limit int) ([]Record, error) {
	records := []Record{}
	if limit <= 0 {
		return records, nil
	}

	query := `
		SELECT id, fields
		FROM documents
		WHERE collection = $1
		  AND fields ->> $2::text IS NOT NULL
		ORDER BY (fields ->> $2::text) COLLATE "C" DESC, id DESC
		LIMIT $3
	`

	rows, err := p.pool.Query(ctx, query, collection, orderField, limit)
	if err != nil {
		return nil, wrap("query", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, wrap("query", collection, fmt.Errorf("failed to scan document: %w", err))
		}
		fields, err := decodeFields(data)
		if err != nil {
			return nil, wrap("query", collection, err)
		}
		records = append(records, Record{ID: id, Fields: fields})
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("query", collection, fmt.Errorf("error iterating documents: %w", err))
	}

	return records, nil
}

// Ping implements Gateway.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return wrap("ping", "", p.pool.Ping(ctx))
}

// Close implements Gateway.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
