package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/saaspy/saaspy/internal/metrics"
)

func TestMetricsHandler_Exposition(t *testing.T) {
	rec := metrics.NewInMemory()
	rec.IncAction("subscribe", metrics.OutcomeSuccess)
	rec.IncStoreError("insert", "timeout")
	rec.ObserveStoreCall("insert", 1500*time.Millisecond)
	rec.ObserveFeedSize(3)

	h := NewMetricsHandler(rec)
	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, line := range []string{
		`saaspy_actions_total{action="subscribe",outcome="success"} 1`,
		`saaspy_store_errors_total{op="insert",kind="timeout"} 1`,
		`saaspy_store_calls_total{op="insert"} 1`,
		`saaspy_store_call_duration_seconds_sum 1.500000`,
		`saaspy_feed_reads_total 1`,
		`saaspy_feed_last_size 3`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("expected %q in output:\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)
	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}
