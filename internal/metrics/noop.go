package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncAction is a no-op.
func (n *NoopRecorder) IncAction(action, outcome string) {}

// ObserveFeedSize is a no-op.
func (n *NoopRecorder) ObserveFeedSize(size int) {}

// ObserveStoreCall is a no-op.
func (n *NoopRecorder) ObserveStoreCall(op string, duration time.Duration) {}

// IncStoreError is a no-op.
func (n *NoopRecorder) IncStoreError(op, kind string) {}
