package store

import (
	"context"
	"time"

	"github.com/saaspy/saaspy/internal/metrics"
)

// timeoutGateway bounds every call with a deadline.
type timeoutGateway struct {
	Gateway
	timeout time.Duration
}

// WithTimeout returns g with each Insert and QueryRecent bounded by d.
// A non-positive d returns g unchanged, leaving calls unbounded.
func WithTimeout(g Gateway, d time.Duration) Gateway {
	if d <= 0 {
		return g
	}
	return &timeoutGateway{Gateway: g, timeout: d}
}

func (t *timeoutGateway) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	id, err := t.Gateway.Insert(ctx, collection, fields)
	return id, wrap("insert", collection, err)
}

func (t *timeoutGateway) QueryRecent(ctx context.Context, collection, orderField string, limit int) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	records, err := t.Gateway.QueryRecent(ctx, collection, orderField, limit)
	return records, wrap("query", collection, err)
}

// instrumentedGateway reports call durations and failure kinds.
type instrumentedGateway struct {
	Gateway
	metrics metrics.Recorder
}

// Instrument returns g reporting to recorder.
func Instrument(g Gateway, recorder metrics.Recorder) Gateway {
	if recorder == nil {
		return g
	}
	return &instrumentedGateway{Gateway: g, metrics: recorder}
}

func (i *instrumentedGateway) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	start := time.Now()
	id, err := i.Gateway.Insert(ctx, collection, fields)
	i.observe("insert", start, err)
	return id, err
}

func (i *instrumentedGateway) QueryRecent(ctx context.Context, collection, orderField string, limit int) ([]Record, error) {
	start := time.Now()
	records, err := i.Gateway.QueryRecent(ctx, collection, orderField, limit)
	i.observe("query", start, err)
	return records, err
}

func (i *instrumentedGateway) observe(op string, start time.Time, err error) {
	i.metrics.ObserveStoreCall(op, time.Since(start))
	if err != nil {
		kind := KindOf(err)
		if kind == "" {
			kind = KindUnavailable
		}
		i.metrics.IncStoreError(op, string(kind))
	}
}
