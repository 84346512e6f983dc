// Package store provides the gateway between the actions and the document
// store. A gateway only appends immutable records and reads the most recent
// ones back; there is no update or delete.
package store

import (
	"context"
	"time"
)

// Fields is the field map of a record.
type Fields map[string]any

// serverTimestamp is the type of the ServerTimestamp sentinel.
type serverTimestamp struct{}

// ServerTimestamp marks a field the store must stamp with its own clock at
// write time.
var ServerTimestamp = serverTimestamp{}

// Record is a single stored document.
type Record struct {
	ID     string
	Fields Fields
}

// String returns the named field as a string, or "" when absent.
func (r Record) String(name string) string {
	v, _ := r.Fields[name].(string)
	return v
}

// Time returns the named field as a time. Backends that persist JSON hand
// timestamps back as text in TimeFormat; both forms are accepted.
func (r Record) Time(name string) (time.Time, bool) {
	switch v := r.Fields[name].(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(TimeFormat, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// Gateway is the persistent store boundary.
type Gateway interface {
	// Insert appends a new record to collection and returns its id.
	Insert(ctx context.Context, collection string, fields Fields) (string, error)

	// QueryRecent returns at most limit records of collection sorted by
	// orderField descending. An empty collection yields an empty slice.
	QueryRecent(ctx context.Context, collection, orderField string, limit int) ([]Record, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and health checks.
	Name() string

	// Close releases the underlying client.
	Close() error
}
