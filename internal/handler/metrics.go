package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/saaspy/saaspy/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeLabeled(w, "saaspy_actions_total", "action", "outcome", snap.Actions)
	writeLabeled(w, "saaspy_store_errors_total", "op", "kind", snap.StoreErrors)

	for _, op := range sortedKeys(snap.StoreCalls) {
		writeMetric(w, "saaspy_store_calls_total{op=%q} %d\n", op, snap.StoreCalls[op])
	}
	writeMetric(w, "saaspy_store_call_duration_seconds_sum %.6f\n", float64(snap.StoreDurationNs)/1e9)

	writeMetric(w, "saaspy_feed_reads_total %d\n", snap.FeedObservations)
	writeMetric(w, "saaspy_feed_last_size %d\n", snap.LastFeedSize)
}

// writeLabeled writes counters keyed "a:b" as name{la="a",lb="b"}.
func writeLabeled(w http.ResponseWriter, name, la, lb string, counts map[string]uint64) {
	for _, key := range sortedKeys(counts) {
		a, b, _ := strings.Cut(key, ":")
		writeMetric(w, "%s{%s=%q,%s=%q} %d\n", name, la, a, lb, b, counts[key])
	}
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
