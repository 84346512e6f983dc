package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
// Map keys are "name:label" pairs, e.g. "subscribe:success".
type Snapshot struct {
	Actions          map[string]uint64
	StoreErrors      map[string]uint64
	StoreCalls       map[string]uint64
	StoreDurationNs  int64
	FeedObservations uint64
	LastFeedSize     int
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu               sync.Mutex
	actions          map[string]uint64
	storeErrors      map[string]uint64
	storeCalls       map[string]uint64
	storeDurationNs  int64
	feedObservations uint64
	lastFeedSize     int
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		actions:     make(map[string]uint64),
		storeErrors: make(map[string]uint64),
		storeCalls:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Actions:          copyCounts(m.actions),
		StoreErrors:      copyCounts(m.storeErrors),
		StoreCalls:       copyCounts(m.storeCalls),
		StoreDurationNs:  m.storeDurationNs,
		FeedObservations: m.feedObservations,
		LastFeedSize:     m.lastFeedSize,
	}
}

// IncAction counts an action result by outcome.
func (m *InMemoryRecorder) IncAction(action, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions[action+":"+outcome]++
}

// ObserveFeedSize records the number of reviews returned by a read.
func (m *InMemoryRecorder) ObserveFeedSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedObservations++
	m.lastFeedSize = size
}

// ObserveStoreCall records a gateway call duration.
func (m *InMemoryRecorder) ObserveStoreCall(op string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeCalls[op]++
	m.storeDurationNs += duration.Nanoseconds()
}

// IncStoreError counts a gateway failure by kind.
func (m *InMemoryRecorder) IncStoreError(op, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeErrors[op+":"+kind]++
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
