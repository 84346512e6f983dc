package handler

import (
	"log/slog"
	"net/http"

	"github.com/saaspy/saaspy/internal/config"
	"github.com/saaspy/saaspy/internal/handler/dto"
)

// ConfigHandler reports which client configuration values are present.
// Values themselves are never returned.
type ConfigHandler struct {
	firebase config.Firebase
	logger   *slog.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(firebase config.Firebase, logger *slog.Logger) *ConfigHandler {
	return &ConfigHandler{firebase: firebase, logger: logger}
}

// Status returns the set/missing status of each variable.
//
// GET /debug/config
func (h *ConfigHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("configuration check",
		"project_id", h.firebase.ProjectID,
		"complete", h.firebase.Complete(),
		"variables", h.firebase.Status(),
	)

	vars := h.firebase.Variables()
	missing := h.firebase.Missing()
	if missing == nil {
		missing = []string{}
	}
	resp := dto.ConfigStatusResponse{
		Variables: make([]dto.ConfigVariable, 0, len(vars)),
		Missing:   missing,
		Complete:  h.firebase.Complete(),
	}
	for _, v := range vars {
		resp.Variables = append(resp.Variables, dto.ConfigVariable{Name: v.Name, Status: v.Status()})
	}

	writeJSON(w, http.StatusOK, resp)
}
