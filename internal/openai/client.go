package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the public OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com"

const (
	chatCompletionsPath = "/v1/chat/completions"
	moderationsPath     = "/v1/moderations"
)

// Client is a client for the OpenAI chat completions and moderations
// APIs. An empty APIKey is not an error here: the request is still sent
// and the API's own rejection comes back as an APIError.
type Client struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewClient creates a new OpenAI client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		client:  http.DefaultClient,
	}
}

// Completion builds a chat completions request, sends it, and returns the
// assistant reply.
func (c *Client) Completion(ctx context.Context, system string, turns []Turn, opts Options) (string, error) {
	payload, err := NewChatRequest(system, turns, opts)
	if err != nil {
		return "", err
	}

	data, err := c.post(ctx, chatCompletionsPath, payload)
	if err != nil {
		return "", err
	}

	return ParseChatResponse(data)
}

// Moderate sends a prompt to the moderations API and reports whether it
// was flagged.
func (c *Client) Moderate(ctx context.Context, prompt string) (bool, error) {
	data, err := c.post(ctx, moderationsPath, NewModerationRequest(prompt))
	if err != nil {
		return false, err
	}

	return ParseModerationResponse(data)
}

// post sends a JSON payload and returns the raw response body. A non-2xx
// status with a parseable error envelope becomes an APIError; without one
// it becomes an ErrUpstream. Envelopes arriving with a 2xx status are
// left for the response parsers to find.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if apiErr := apiErrorFrom(data); apiErr != nil {
			return nil, apiErr
		}
		return nil, fmt.Errorf("%w: bad status %d: %s", ErrUpstream, resp.StatusCode, string(data))
	}

	return data, nil
}

// apiErrorFrom pulls the error envelope out of a response body, or nil
// when the body does not carry one.
func apiErrorFrom(data []byte) *APIError {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil
	}
	if envelope.Error == nil || envelope.Error.Message == "" {
		return nil
	}
	return envelope.Error
}
