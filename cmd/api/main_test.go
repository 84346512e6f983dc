package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saaspy/saaspy/internal/config"
	"github.com/saaspy/saaspy/internal/metrics"
	"github.com/saaspy/saaspy/internal/middleware"
	"github.com/saaspy/saaspy/internal/model"
	"github.com/saaspy/saaspy/internal/service"
	"github.com/saaspy/saaspy/internal/session"
	"github.com/saaspy/saaspy/internal/store"
	"github.com/saaspy/saaspy/internal/web"
)

func newTestApp(t *testing.T, env string) *app {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := metrics.NewInMemory()
	gateway := store.Instrument(store.NewMemoryStore(), recorder)

	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	cfg := &config.Config{
		AppEnv:             env,
		MaxRequestBodySize: 1 << 20,
		MetricsEnabled:     true,
		CORSAllowedOrigins: "https://partner.example.com",
		Firebase:           config.Firebase{ProjectID: "saaspy-dev"},
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		gateway:  gateway,
		recorder: recorder,
		actions:  service.NewActions(gateway, logger, recorder, 0),
		sessions: session.NewManager("0123456789abcdef0123456789abcdef", false, logger),
		renderer: renderer,
	}
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_LandingPage(t *testing.T) {
	r := newTestApp(t, "production").router()

	rec := serve(r, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if rec.Header().Get("Content-Security-Policy") != middleware.ContentSecurityPolicy {
		t.Error("expected security headers on the page")
	}

	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}

	body := rec.Body.String()
	for _, id := range []string{`id="about"`, `id="newsletter"`, `id="reviews"`, `id="write-review"`, `id="pages"`} {
		if !strings.Contains(body, id) {
			t.Errorf("expected section %s", id)
		}
	}
}

func TestRouter_HSTSOnlyInProduction(t *testing.T) {
	prod := serve(newTestApp(t, "production").router(), http.MethodGet, "/healthz", "")
	if prod.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS header in production")
	}

	dev := serve(newTestApp(t, "development").router(), http.MethodGet, "/healthz", "")
	if dev.Header().Get("Strict-Transport-Security") != "" {
		t.Error("expected no HSTS header in development")
	}
}

func TestRouter_ServesImages(t *testing.T) {
	r := newTestApp(t, "production").router()

	for _, path := range []string{"/avatar1.png", "/avatar2.png", "/avatar3.png", "/dashboard.png"} {
		rec := serve(r, http.MethodGet, path, "")

		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, rec.Code)
			continue
		}

		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("%s: expected image/png, got %q", path, ct)
		}
	}

	if rec := serve(r, http.MethodGet, "/avatar4.png", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown image, got %d", rec.Code)
	}
}

func TestRouter_APIRoundTrip(t *testing.T) {
	a := newTestApp(t, "production")
	r := a.router()

	rec := serve(r, http.MethodPost, "/api/reviews", `{"name":"Jane","location":"Berlin","review":"Great"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(r, http.MethodGet, "/api/reviews", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var res model.ReviewsResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(res.Reviews) != 1 || res.Reviews[0].Name != "Jane" {
		t.Errorf("unexpected reviews: %+v", res.Reviews)
	}

	rec = serve(r, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), `saaspy_actions_total{action="submit_review",outcome="success"} 1`) {
		t.Errorf("expected action counter in metrics:\n%s", rec.Body.String())
	}

	if !strings.Contains(rec.Body.String(), `saaspy_store_calls_total{op="insert"} 1`) {
		t.Errorf("expected store call counter in metrics:\n%s", rec.Body.String())
	}
}

func TestRouter_APICORS(t *testing.T) {
	r := newTestApp(t, "production").router()

	req := httptest.NewRequest(http.MethodOptions, "/api/subscribe", nil)
	req.Header.Set("Origin", "https://partner.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}

	if rec.Header().Get("Access-Control-Allow-Origin") != "https://partner.example.com" {
		t.Error("expected allowed origin header")
	}
}

func TestRouter_DebugConfigOnlyInDevelopment(t *testing.T) {
	dev := serve(newTestApp(t, "development").router(), http.MethodGet, "/debug/config", "")
	if dev.Code != http.StatusOK {
		t.Errorf("expected status 200 in development, got %d", dev.Code)
	}

	prod := serve(newTestApp(t, "production").router(), http.MethodGet, "/debug/config", "")
	if prod.Code != http.StatusNotFound {
		t.Errorf("expected status 404 in production, got %d", prod.Code)
	}
}

func TestRouter_Fallbacks(t *testing.T) {
	r := newTestApp(t, "production").router()

	if rec := serve(r, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	if rec := serve(r, http.MethodPut, "/subscribe", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://saaspy:hunter2@db:5432/saaspy", "postgres://saaspy@db:5432/saaspy"},
		{"redis://:hunter2@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"redis://cache:6379", "redis://cache:6379"},
	}

	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://saaspy:hunter2@db:5432/saaspy"
	err := errors.New("connect " + dsn + " failed: password=hunter2 rejected")

	got := sanitizeError(err, dsn)

	if strings.Contains(got, "hunter2") {
		t.Errorf("secret leaked: %s", got)
	}

	if sanitizeError(nil) != "" {
		t.Error("expected empty string for nil error")
	}
}
