// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/saaspy/saaspy/internal/metrics"
	"github.com/saaspy/saaspy/internal/store"
)

// Configuration errors.
var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres backend")
	ErrMissingRedisURL    = errors.New("REDIS_URL is required for the redis backend")
	ErrMissingBadgerPath  = errors.New("BADGER_PATH is required for the badger backend")
	ErrMissingProjectID   = errors.New("FIREBASE_PROJECT_ID is required for the firestore backend")
	ErrUnknownBackend     = errors.New("unknown STORE_BACKEND")
	ErrInvalidFeedLimit   = errors.New("FEED_LIMIT must be positive")
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration for the JSON API.
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Document store
	StoreBackend        string        `env:"STORE_BACKEND" envDefault:"memory"`
	StoreTimeout        time.Duration `env:"STORE_TIMEOUT" envDefault:"0s"`
	BadgerPath          string        `env:"BADGER_PATH" envDefault:"data/badger"`
	DatabaseURL         string        `env:"DATABASE_URL"`
	PostgresAutoMigrate bool          `env:"POSTGRES_AUTO_MIGRATE" envDefault:"true"`
	RedisURL            string        `env:"REDIS_URL"`

	// Firestore. The project id comes from the Firebase block.
	GoogleCredentialsURL string `env:"GOOGLE_CREDENTIALS_URL"`
	FirestoreDatabase    string `env:"FIRESTORE_DATABASE"`

	// Landing page
	FeedLimit     int    `env:"FEED_LIMIT" envDefault:"6"`
	SessionSecret string `env:"SESSION_SECRET"`

	// Expose /metrics
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	Firebase Firebase `envPrefix:"FIREBASE_"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks the settings the selected store backend depends on.
func (c *Config) Validate() error {
	if c.FeedLimit <= 0 {
		return ErrInvalidFeedLimit
	}

	switch c.StoreBackend {
	case store.BackendMemory:
	case store.BackendBadger:
		if c.BadgerPath == "" {
			return ErrMissingBadgerPath
		}
	case store.BackendPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case store.BackendRedis:
		if c.RedisURL == "" {
			return ErrMissingRedisURL
		}
	case store.BackendFirestore:
		if c.Firebase.ProjectID == "" {
			return ErrMissingProjectID
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.StoreBackend)
	}
	return nil
}

// StoreOptions returns the options for store.Open.
func (c *Config) StoreOptions(recorder metrics.Recorder) store.Options {
	return store.Options{
		Backend:           c.StoreBackend,
		BadgerPath:        c.BadgerPath,
		DatabaseURL:       c.DatabaseURL,
		AutoMigrate:       c.PostgresAutoMigrate,
		RedisURL:          c.RedisURL,
		ProjectID:         c.Firebase.ProjectID,
		FirestoreDatabase: c.FirestoreDatabase,
		CredentialsURL:    c.GoogleCredentialsURL,
		Timeout:           c.StoreTimeout,
		Metrics:           recorder,
	}
}

// Load reads an optional .env file, parses environment variables and
// validates the result.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given files without overriding ones
// already set. Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	for _, name := range filenames {
		if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}
