package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/saaspy/saaspy/internal/handler/dto"
	"github.com/saaspy/saaspy/internal/model"
	"github.com/saaspy/saaspy/internal/service"
	"github.com/saaspy/saaspy/internal/validation"
)

// maxFeedLimit caps the limit query parameter.
const maxFeedLimit = 50

// APIHandler exposes the actions as JSON endpoints.
type APIHandler struct {
	actions *service.Actions
	logger  *slog.Logger
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(actions *service.Actions, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		actions: actions,
		logger:  logger,
	}
}

// Subscribe handles POST /api/subscribe.
func (h *APIHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := validation.Subscribe(model.SubscribeInput{Email: req.Email}); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, model.ActionResult{Success: false, Message: validation.Message(err)})
		return
	}

	res := h.actions.Subscribe(r.Context(), req.Email)
	writeJSON(w, resultStatus(res.Success, http.StatusCreated), res)
}

// SubmitReview handles POST /api/reviews.
func (h *APIHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req dto.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := model.ReviewInput{Name: req.Name, Location: req.Location, Review: req.Review}
	if err := validation.Review(input); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, model.ActionResult{Success: false, Message: validation.Message(err)})
		return
	}

	res := h.actions.SubmitReview(r.Context(), input)
	writeJSON(w, resultStatus(res.Success, http.StatusCreated), res)
}

// ListReviews handles GET /api/reviews.
func (h *APIHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 || parsed > maxFeedLimit {
			writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	res := h.actions.ListRecentReviews(r.Context(), limit)
	writeJSON(w, resultStatus(res.Success, http.StatusOK), res)
}

// resultStatus maps an action outcome to a status code. Failures that
// reach the action are store failures.
func resultStatus(success bool, ok int) int {
	if success {
		return ok
	}
	return http.StatusServiceUnavailable
}
