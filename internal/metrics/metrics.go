// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Action outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeStoreError = "store_error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Action boundary
	IncAction(action, outcome string)
	ObserveFeedSize(size int)

	// Store gateway
	ObserveStoreCall(op string, duration time.Duration)
	IncStoreError(op, kind string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
