package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/filipehb/se-uo-shard/internal/contextutil"
	"github.com/filipehb/se-uo-shard/internal/service"
)

// ChatHandler handles HTTP requests for conversational chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the HTTP request payload for chat. An absent
// conversation_id starts a new conversation; system is only read in that
// case.
type ChatRequest struct {
	ConversationID string          `json:"conversation_id,omitempty"`
	System         string          `json:"system,omitempty"`
	Message        string          `json:"message"`
	Options        *OptionsPayload `json:"options,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, decodeErrorMessage(err))
		return
	}

	// Convert HTTP request to service request
	svcReq := service.ChatRequest{
		ConversationID: req.ConversationID,
		System:         req.System,
		Message:        req.Message,
		Options:        req.Options.toOptions(),
	}

	// Call service layer
	svcResp, err := h.chatService.ProcessChat(ctx, svcReq)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}

	// Convert service response to HTTP response
	writeJSON(w, http.StatusOK, ChatResponse{
		ConversationID: svcResp.ConversationID,
		Reply:          svcResp.Reply,
	})
}
