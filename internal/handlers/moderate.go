package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/filipehb/se-uo-shard/internal/contextutil"
	"github.com/filipehb/se-uo-shard/internal/service"
)

// ModerateHandler handles HTTP requests for moderation checks.
type ModerateHandler struct {
	moderationService service.ModerationService
}

// NewModerateHandler creates a new ModerateHandler.
func NewModerateHandler(moderationService service.ModerationService) *ModerateHandler {
	return &ModerateHandler{
		moderationService: moderationService,
	}
}

// ModerateRequest represents the HTTP request payload for moderation checks.
type ModerateRequest struct {
	Prompt string `json:"prompt"`
}

// ModerateResponse represents the HTTP response payload for moderation checks.
type ModerateResponse struct {
	Flagged bool `json:"flagged"`
}

// ServeHTTP handles HTTP requests for moderation checks.
func (h *ModerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ModerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, decodeErrorMessage(err))
		return
	}

	// Validate request
	if req.Prompt == "" {
		logger.WarnContext(ctx, "empty prompt in request")
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	// Call service layer
	verdict, err := h.moderationService.CheckPrompt(ctx, req.Prompt)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process moderation request")
		return
	}

	// Convert service response to HTTP response
	writeJSON(w, http.StatusOK, ModerateResponse{
		Flagged: verdict.Flagged,
	})
}
