package openai

import (
	"encoding/json"
	"fmt"
)

// Turn represents one exchange unit supplied by the caller. Either side
// may be set on its own; when both are set the assistant entry is placed
// before the user entry, matching a reply followed by a follow-up.
type Turn struct {
	Assistant *string `json:"assistant,omitempty"`
	User      *string `json:"user,omitempty"`
}

// Options are the caller-tunable generation parameters for a chat
// completion. Nil pointer fields mean "not requested" and are serialized
// as null, so a caller asking for a zero temperature is honored.
type Options struct {
	Model            Model
	MaxTokens        *int
	Temperature      *float64
	TopP             *float64
	PresencePenalty  *float64
	FrequencyPenalty *float64
	JSON             bool
}

// ResponseFormat constrains the shape of the model output.
type ResponseFormat struct {
	Type string `json:"type"`
}

const responseFormatJSON = "json_object"

// ChatRequest represents the request payload for the chat completions
// API. The optional keys have no omitempty on purpose: the key set on
// the wire is fixed, null when the caller did not set a value.
type ChatRequest struct {
	Model            Model           `json:"model"`
	Messages         []Message       `json:"messages"`
	MaxTokens        *int            `json:"max_tokens"`
	Temperature      *float64        `json:"temperature"`
	TopP             *float64        `json:"top_p"`
	PresencePenalty  *float64        `json:"presence_penalty"`
	FrequencyPenalty *float64        `json:"frequency_penalty"`
	ResponseFormat   *ResponseFormat `json:"response_format"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   Model        `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
	Error   *APIError    `json:"error"`
}

// NewChatRequest builds a chat completions payload from a system message,
// the conversation so far, and the caller's options. Turns are validated
// before anything else: a turn with neither side set fails with
// ErrInvalidInput and nothing is sent.
func NewChatRequest(system string, turns []Turn, opts Options) (*ChatRequest, error) {
	for i, turn := range turns {
		if turn.Assistant == nil && turn.User == nil {
			return nil, fmt.Errorf("%w: turn %d has neither assistant nor user entry", ErrInvalidInput, i)
		}
	}

	messages := make([]Message, 0, 2*len(turns)+1)
	messages = append(messages, Message{Role: RoleSystem, Content: system})
	for _, turn := range turns {
		if turn.Assistant != nil {
			messages = append(messages, Message{Role: RoleAssistant, Content: *turn.Assistant})
		}
		if turn.User != nil {
			messages = append(messages, Message{Role: RoleUser, Content: *turn.User})
		}
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	req := &ChatRequest{
		Model:            model,
		Messages:         messages,
		MaxTokens:        opts.MaxTokens,
		Temperature:      opts.Temperature,
		TopP:             opts.TopP,
		PresencePenalty:  opts.PresencePenalty,
		FrequencyPenalty: opts.FrequencyPenalty,
	}
	if opts.JSON {
		req.ResponseFormat = &ResponseFormat{Type: responseFormatJSON}
	}

	return req, nil
}

// ParseChatResponse extracts the assistant reply from a chat completions
// response body. The error envelope is checked before anything else, so
// a body carrying one is an APIError regardless of how it arrived.
func ParseChatResponse(data []byte) (string, error) {
	var resp ChatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if resp.Error != nil && resp.Error.Message != "" {
		return "", resp.Error
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	return resp.Choices[0].Message.Content, nil
}
