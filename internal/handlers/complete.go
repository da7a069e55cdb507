package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/filipehb/se-uo-shard/internal/contextutil"
	"github.com/filipehb/se-uo-shard/internal/openai"
	"github.com/filipehb/se-uo-shard/internal/service"
)

// CompleteHandler handles HTTP requests for stateless completions.
type CompleteHandler struct {
	completionService service.CompletionService
}

// NewCompleteHandler creates a new CompleteHandler.
func NewCompleteHandler(completionService service.CompletionService) *CompleteHandler {
	return &CompleteHandler{
		completionService: completionService,
	}
}

// TurnPayload represents one conversational turn in the HTTP payload.
// This mirrors openai.Turn but is defined here for HTTP layer separation.
type TurnPayload struct {
	Assistant *string `json:"assistant,omitempty"`
	User      *string `json:"user,omitempty"`
}

// OptionsPayload represents tuning options in the HTTP payload.
// This mirrors openai.Options but is defined here for HTTP layer separation.
type OptionsPayload struct {
	Model            string   `json:"model,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	JSON             bool     `json:"json,omitempty"`
}

// CompleteRequest represents the HTTP request payload for completions.
type CompleteRequest struct {
	System  string          `json:"system"`
	Turns   []TurnPayload   `json:"turns"`
	Options *OptionsPayload `json:"options,omitempty"`
}

// CompleteResponse represents the HTTP response payload for completions.
type CompleteResponse struct {
	Text string `json:"text"`
}

// toTurns converts HTTP turn payloads to builder turns.
func toTurns(payloads []TurnPayload) []openai.Turn {
	turns := make([]openai.Turn, len(payloads))
	for i, p := range payloads {
		turns[i] = openai.Turn{
			Assistant: p.Assistant,
			User:      p.User,
		}
	}
	return turns
}

// toOptions converts an HTTP options payload to builder options. A nil
// payload means all defaults.
func (p *OptionsPayload) toOptions() openai.Options {
	if p == nil {
		return openai.Options{}
	}
	return openai.Options{
		Model:            openai.Model(p.Model),
		MaxTokens:        p.MaxTokens,
		Temperature:      p.Temperature,
		TopP:             p.TopP,
		PresencePenalty:  p.PresencePenalty,
		FrequencyPenalty: p.FrequencyPenalty,
		JSON:             p.JSON,
	}
}

// ServeHTTP handles HTTP requests for stateless completions.
func (h *CompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, decodeErrorMessage(err))
		return
	}

	// Convert HTTP request to service request
	svcReq := service.CompleteRequest{
		System:  req.System,
		Turns:   toTurns(req.Turns),
		Options: req.Options.toOptions(),
	}

	// Call service layer
	svcResp, err := h.completionService.Complete(ctx, svcReq)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process completion request")
		return
	}

	// Convert service response to HTTP response
	writeJSON(w, http.StatusOK, CompleteResponse{
		Text: svcResp.Text,
	})
}
