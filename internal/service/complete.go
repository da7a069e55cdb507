package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks github.com/filipehb/se-uo-shard/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completion_service.go -package=mocks -mock_names=CompletionService=MockCompletionService github.com/filipehb/se-uo-shard/internal/service CompletionService

import (
	"context"
	"errors"
	"time"

	"github.com/filipehb/se-uo-shard/internal/contextutil"
	"github.com/filipehb/se-uo-shard/internal/observability"
	"github.com/filipehb/se-uo-shard/internal/openai"
)

// LLMClient is an interface for interacting with the OpenAI API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Completion sends a chat completion request and returns the reply.
	Completion(ctx context.Context, system string, turns []openai.Turn, opts openai.Options) (string, error)
	// Moderate reports whether a prompt is flagged by the moderations API.
	Moderate(ctx context.Context, prompt string) (bool, error)
}

// CompleteRequest represents a stateless completion request in the domain layer.
type CompleteRequest struct {
	System  string
	Turns   []openai.Turn
	Options openai.Options
}

// CompleteResponse represents a completion response in the domain layer.
type CompleteResponse struct {
	Text string
}

// CompletionService provides stateless chat completions.
type CompletionService interface {
	// Complete builds and sends one completion request and returns the reply.
	Complete(ctx context.Context, req CompleteRequest) (CompleteResponse, error)
}

// completionService implements CompletionService.
type completionService struct {
	llmClient LLMClient
}

// NewCompletionService creates a new CompletionService.
func NewCompletionService(llmClient LLMClient) CompletionService {
	return &completionService{
		llmClient: llmClient,
	}
}

// Complete builds and sends one completion request. Turn validation
// happens in the request builder, so a bad turn never reaches the
// network; the error comes back before any upstream call is recorded.
func (s *completionService) Complete(ctx context.Context, req CompleteRequest) (CompleteResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	start := time.Now()
	text, err := s.llmClient.Completion(ctx, req.System, req.Turns, req.Options)
	if errors.Is(err, openai.ErrInvalidInput) {
		// Rejected by the builder: nothing left the process, so no upstream
		// metric is recorded, and the error goes back as-is with its turn
		// index intact.
		logger.WarnContext(ctx, "completion request rejected", "error", err)
		return CompleteResponse{}, err
	}
	observability.RecordUpstreamRequest("chat_completions", err, time.Since(start))
	if err != nil {
		logger.ErrorContext(ctx, "failed to get completion", "error", err)
		return CompleteResponse{}, WrapError(err, "failed to get completion")
	}

	logger.InfoContext(ctx, "completion processed successfully", "turns", len(req.Turns), "reply_length", len(text))
	return CompleteResponse{
		Text: text,
	}, nil
}
