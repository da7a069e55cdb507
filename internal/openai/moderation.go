package openai

import (
	"encoding/json"
	"fmt"
)

// ModerationRequest represents the request payload for the moderations
// API.
type ModerationRequest struct {
	Input string `json:"input"`
}

// ModerationResult is the verdict for a single moderated input.
type ModerationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// ModerationResponse represents the response from the moderations API.
type ModerationResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Results []ModerationResult `json:"results"`
	Error   *APIError          `json:"error"`
}

// NewModerationRequest builds a moderations payload for a single prompt.
// Empty prompts are sent as-is; the API decides what to do with them.
func NewModerationRequest(prompt string) *ModerationRequest {
	return &ModerationRequest{Input: prompt}
}

// ParseModerationResponse extracts the flagged verdict from a moderations
// response body. The error envelope is checked before the results, same
// as for chat completions.
func ParseModerationResponse(data []byte) (bool, error) {
	var resp ModerationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if resp.Error != nil && resp.Error.Message != "" {
		return false, resp.Error
	}

	if len(resp.Results) == 0 {
		return false, fmt.Errorf("%w: no results returned", ErrMalformedResponse)
	}

	return resp.Results[0].Flagged, nil
}
