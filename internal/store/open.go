package store

import (
	"context"
	"fmt"
	"time"

	"github.com/saaspy/saaspy/internal/metrics"
)

// Backend names accepted by Open.
const (
	BackendMemory    = "memory"
	BackendBadger    = "badger"
	BackendRedis     = "redis"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// badger
	BadgerPath string

	// postgres
	DatabaseURL string
	AutoMigrate bool

	// redis
	RedisURL string

	// firestore
	ProjectID         string
	FirestoreDatabase string
	CredentialsURL    string

	// Timeout bounds each call; zero leaves calls unbounded.
	Timeout time.Duration

	Metrics metrics.Recorder
}

// Open connects the configured backend and wraps it with the timeout and
// instrumentation layers.
func Open(ctx context.Context, opts Options) (Gateway, error) {
	var (
		g   Gateway
		err error
	)

	switch opts.Backend {
	case BackendMemory, "":
		g = NewMemoryStore()
	case BackendBadger:
		g, err = NewBadgerStore(opts.BadgerPath)
	case BackendRedis:
		g, err = NewRedisStore(ctx, opts.RedisURL)
	case BackendPostgres:
		if opts.AutoMigrate {
			if err := MigratePostgres(ctx, opts.DatabaseURL); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		g, err = NewPostgresStore(ctx, opts.DatabaseURL)
	case BackendFirestore:
		g, err = NewFirestoreStore(ctx, opts.ProjectID, opts.FirestoreDatabase, opts.CredentialsURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(WithTimeout(g, opts.Timeout), opts.Metrics), nil
}
