package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogger_RecordsRequest(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := decodeLogLine(t, &buf)

	if entry["msg"] != "http request" {
		t.Errorf("unexpected message: %v", entry["msg"])
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("unexpected request_id: %v", entry["request_id"])
	}
	if entry["method"] != http.MethodPost {
		t.Errorf("unexpected method: %v", entry["method"])
	}
	if entry["status_code"] != float64(http.StatusCreated) {
		t.Errorf("unexpected status_code: %v", entry["status_code"])
	}
	if entry["bytes"] != float64(5) {
		t.Errorf("unexpected bytes: %v", entry["bytes"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("unexpected level: %v", entry["level"])
	}
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		want   string
	}{
		{"server error", "/", http.StatusInternalServerError, "ERROR"},
		{"client error", "/", http.StatusNotFound, "WARN"},
		{"health check", "/healthz", http.StatusOK, "DEBUG"},
		{"failing readiness check", "/readyz", http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if got := decodeLogLine(t, &buf)["level"]; got != tt.want {
				t.Errorf("expected level %s, got %v", tt.want, got)
			}
		})
	}
}

// TestLogger_NoFormValuesLogged ensures submitted emails never reach the
// access log through the query string.
func TestLogger_NoFormValuesLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/?email=jane@example.com", nil)
	req.Header.Set("Cookie", "saaspy_session=secret-cookie")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, pattern := range []string{"jane@example.com", "secret-cookie"} {
		if strings.Contains(out, pattern) {
			t.Errorf("log output contains %q", pattern)
		}
	}
}
