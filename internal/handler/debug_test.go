package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saaspy/saaspy/internal/config"
	"github.com/saaspy/saaspy/internal/handler/dto"
)

func TestConfigHandler_Status(t *testing.T) {
	fb := config.Firebase{APIKey: "secret-key", ProjectID: "saaspy-prod"}
	h := NewConfigHandler(fb, discardLogger())

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/debug/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if strings.Contains(rec.Body.String(), "secret-key") {
		t.Error("configuration values must not be returned")
	}

	var resp dto.ConfigStatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Variables) != 6 {
		t.Fatalf("expected 6 variables, got %d", len(resp.Variables))
	}

	if resp.Variables[0].Name != "FIREBASE_API_KEY" || resp.Variables[0].Status != config.StatusSet {
		t.Errorf("unexpected first variable: %+v", resp.Variables[0])
	}

	if len(resp.Missing) != 4 || resp.Complete {
		t.Errorf("expected 4 missing and incomplete, got %+v", resp)
	}
}

func TestConfigHandler_StatusComplete(t *testing.T) {
	fb := config.Firebase{
		APIKey:            "a",
		AuthDomain:        "b",
		ProjectID:         "c",
		StorageBucket:     "d",
		MessagingSenderID: "e",
		AppID:             "f",
	}
	h := NewConfigHandler(fb, discardLogger())

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/debug/config", nil))

	if !strings.Contains(rec.Body.String(), `"missing":[]`) {
		t.Errorf("expected empty missing list, got %s", rec.Body.String())
	}

	if !strings.Contains(rec.Body.String(), `"complete":true`) {
		t.Errorf("expected complete, got %s", rec.Body.String())
	}
}

func TestConfigHandler_StatusLogsPresence(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	fb := config.Firebase{APIKey: "secret-key", ProjectID: "saaspy-prod"}

	rec := httptest.NewRecorder()
	NewConfigHandler(fb, logger).Status(rec, httptest.NewRequest(http.MethodGet, "/debug/config", nil))

	var entry struct {
		ProjectID string            `json:"project_id"`
		Complete  bool              `json:"complete"`
		Variables map[string]string `json:"variables"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry: %v", err)
	}

	if entry.ProjectID != "saaspy-prod" || entry.Complete {
		t.Errorf("unexpected log entry: %+v", entry)
	}

	if entry.Variables["FIREBASE_API_KEY"] != config.StatusSet || entry.Variables["FIREBASE_APP_ID"] != config.StatusMissing {
		t.Errorf("unexpected variable statuses: %v", entry.Variables)
	}

	if strings.Contains(buf.String(), "secret-key") {
		t.Error("configuration values must not be logged")
	}
}
