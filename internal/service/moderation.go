package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_moderation_service.go -package=mocks -mock_names=ModerationService=MockModerationService github.com/filipehb/se-uo-shard/internal/service ModerationService

import (
	"context"
	"time"

	"github.com/filipehb/se-uo-shard/internal/contextutil"
	"github.com/filipehb/se-uo-shard/internal/observability"
)

// ModerationVerdict represents a moderation decision in the domain layer.
type ModerationVerdict struct {
	Flagged bool
}

// ModerationService provides prompt moderation checks.
type ModerationService interface {
	// CheckPrompt sends a prompt to the moderations API and returns the verdict.
	CheckPrompt(ctx context.Context, prompt string) (ModerationVerdict, error)
}

// moderationService implements ModerationService.
type moderationService struct {
	llmClient LLMClient
}

// NewModerationService creates a new ModerationService.
func NewModerationService(llmClient LLMClient) ModerationService {
	return &moderationService{
		llmClient: llmClient,
	}
}

// CheckPrompt sends a prompt to the moderations API. The prompt is passed
// through as-is, empty or not; the API owns the verdict.
func (s *moderationService) CheckPrompt(ctx context.Context, prompt string) (ModerationVerdict, error) {
	logger := contextutil.LoggerFromContext(ctx)

	start := time.Now()
	flagged, err := s.llmClient.Moderate(ctx, prompt)
	observability.RecordUpstreamRequest("moderations", err, time.Since(start))
	if err != nil {
		logger.ErrorContext(ctx, "failed to moderate prompt", "error", err)
		return ModerationVerdict{}, WrapError(err, "failed to moderate prompt")
	}

	if flagged {
		observability.RecordPromptFlagged()
		logger.WarnContext(ctx, "prompt flagged by moderation", "prompt_length", len(prompt))
	}

	return ModerationVerdict{
		Flagged: flagged,
	}, nil
}
