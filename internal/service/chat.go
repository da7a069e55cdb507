package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService github.com/filipehb/se-uo-shard/internal/service ChatService

import (
	"context"
	"errors"
	"fmt"

	"github.com/filipehb/se-uo-shard/internal/contextutil"
	"github.com/filipehb/se-uo-shard/internal/openai"
	"github.com/filipehb/se-uo-shard/internal/storage"
)

// ChatRequest represents a conversational chat request in the domain layer.
// An empty ConversationID starts a new conversation; System is only read
// in that case, since the system prompt is pinned at creation.
type ChatRequest struct {
	ConversationID string
	System         string
	Message        string
	Options        openai.Options
}

// ChatResponse represents a conversational chat response in the domain layer.
type ChatResponse struct {
	ConversationID string
	Reply          string
}

// ChatService provides moderated, conversation-backed chat functionality.
type ChatService interface {
	// ProcessChat processes a chat request and returns a response.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	completion   CompletionService
	moderation   ModerationService
	store        storage.ConversationStore
	defaultModel openai.Model
}

// NewChatService creates a new ChatService. defaultModel may be empty, in
// which case new conversations fall back to the client default.
func NewChatService(completion CompletionService, moderation ModerationService, store storage.ConversationStore, defaultModel openai.Model) ChatService {
	return &chatService{
		completion:   completion,
		moderation:   moderation,
		store:        store,
		defaultModel: defaultModel,
	}
}

// ProcessChat processes a chat request: validate, moderate, replay the
// stored history as turns, complete, persist the new exchange. A new
// conversation is only created after its first message passes moderation,
// so flagged openers leave nothing behind.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if req.Message == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	// Look up an existing conversation before spending a moderation call.
	var conv *storage.ConversationRecord
	if req.ConversationID != "" {
		existing, err := s.store.Get(ctx, req.ConversationID)
		if errors.Is(err, storage.ErrNotFound) {
			logger.WarnContext(ctx, "unknown conversation", "conversation_id", req.ConversationID)
			return ChatResponse{}, fmt.Errorf("conversation %s: %w", req.ConversationID, ErrNotFound)
		}
		if err != nil {
			return ChatResponse{}, WrapError(err, "failed to load conversation")
		}
		conv = existing
	}

	verdict, err := s.moderation.CheckPrompt(ctx, req.Message)
	if err != nil {
		return ChatResponse{}, err
	}
	if verdict.Flagged {
		return ChatResponse{}, ErrPromptFlagged
	}

	opts := req.Options
	if conv == nil {
		model := opts.Model
		if model == "" {
			model = s.defaultModel
		}
		if model == "" {
			model = openai.DefaultModel
		}
		opts.Model = model

		created, err := s.store.Create(ctx, req.System, string(model))
		if err != nil {
			logger.ErrorContext(ctx, "failed to create conversation", "error", err)
			return ChatResponse{}, WrapError(err, "failed to create conversation")
		}
		conv = created
	} else if opts.Model == "" {
		// Continuations stick with the model the conversation started on.
		opts.Model = openai.Model(conv.Model)
	}

	history, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load conversation history", "error", err)
		return ChatResponse{}, WrapError(err, "failed to load conversation history")
	}

	// Replay each stored message as a one-sided turn so the original
	// ordering survives; a two-sided turn would put the reply before the
	// message that prompted it.
	turns := make([]openai.Turn, 0, len(history)+1)
	for _, msg := range history {
		content := msg.Content
		switch msg.Role {
		case "assistant":
			turns = append(turns, openai.Turn{Assistant: &content})
		case "user":
			turns = append(turns, openai.Turn{User: &content})
		}
	}
	turns = append(turns, openai.Turn{User: &req.Message})

	completion, err := s.completion.Complete(ctx, CompleteRequest{
		System:  conv.SystemPrompt,
		Turns:   turns,
		Options: opts,
	})
	if err != nil {
		return ChatResponse{}, err
	}

	if err := s.store.AppendExchange(ctx, conv.ID, req.Message, completion.Text); err != nil {
		logger.ErrorContext(ctx, "failed to persist exchange", "conversation_id", conv.ID, "error", err)
		return ChatResponse{}, WrapError(err, "failed to persist exchange")
	}

	logger.InfoContext(ctx, "chat request processed successfully",
		"conversation_id", conv.ID, "history_length", len(history), "reply_length", len(completion.Text))
	return ChatResponse{
		ConversationID: conv.ID,
		Reply:          completion.Text,
	}, nil
}
