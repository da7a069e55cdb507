package openai

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNewChatRequest(t *testing.T) {
	tests := []struct {
		name         string
		system       string
		turns        []Turn
		wantMessages []Message
		wantErr      bool
	}{
		{
			name:   "system message comes first",
			system: "You are a town crier.",
			turns: []Turn{
				{User: ptr("What news?")},
			},
			wantMessages: []Message{
				{Role: RoleSystem, Content: "You are a town crier."},
				{Role: RoleUser, Content: "What news?"},
			},
		},
		{
			name:   "assistant precedes user within a turn",
			system: "sys",
			turns: []Turn{
				{Assistant: ptr("Welcome, traveler."), User: ptr("Where is the bank?")},
			},
			wantMessages: []Message{
				{Role: RoleSystem, Content: "sys"},
				{Role: RoleAssistant, Content: "Welcome, traveler."},
				{Role: RoleUser, Content: "Where is the bank?"},
			},
		},
		{
			name:   "assistant-only turn",
			system: "sys",
			turns: []Turn{
				{Assistant: ptr("Hello")},
			},
			wantMessages: []Message{
				{Role: RoleSystem, Content: "sys"},
				{Role: RoleAssistant, Content: "Hello"},
			},
		},
		{
			name:   "multiple turns keep order",
			system: "sys",
			turns: []Turn{
				{User: ptr("first")},
				{Assistant: ptr("reply"), User: ptr("second")},
			},
			wantMessages: []Message{
				{Role: RoleSystem, Content: "sys"},
				{Role: RoleUser, Content: "first"},
				{Role: RoleAssistant, Content: "reply"},
				{Role: RoleUser, Content: "second"},
			},
		},
		{
			name:   "no turns yields system message only",
			system: "sys",
			turns:  nil,
			wantMessages: []Message{
				{Role: RoleSystem, Content: "sys"},
			},
		},
		{
			name:   "empty system message is kept",
			system: "",
			turns: []Turn{
				{User: ptr("hi")},
			},
			wantMessages: []Message{
				{Role: RoleSystem, Content: ""},
				{Role: RoleUser, Content: "hi"},
			},
		},
		{
			name:   "turn with neither side is rejected",
			system: "sys",
			turns: []Turn{
				{User: ptr("ok")},
				{},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewChatRequest(tt.system, tt.turns, Options{})

			if tt.wantErr {
				if err == nil {
					t.Fatal("NewChatRequest() expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("NewChatRequest() error = %v, want ErrInvalidInput", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewChatRequest() unexpected error: %v", err)
			}

			if !reflect.DeepEqual(req.Messages, tt.wantMessages) {
				t.Errorf("NewChatRequest() messages = %v, want %v", req.Messages, tt.wantMessages)
			}
		})
	}
}

func TestNewChatRequest_InvalidTurnNamesIndex(t *testing.T) {
	turns := []Turn{
		{User: ptr("fine")},
		{Assistant: ptr("fine")},
		{},
	}

	_, err := NewChatRequest("sys", turns, Options{})
	if err == nil {
		t.Fatal("NewChatRequest() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "turn 2") {
		t.Errorf("NewChatRequest() error = %v, want mention of turn 2", err)
	}
}

func TestNewChatRequest_Idempotent(t *testing.T) {
	turns := []Turn{{Assistant: ptr("Welcome.")}, {User: ptr("hi")}}
	opts := Options{Model: ModelGPT4o, Temperature: ptr(0.3)}

	first, err := NewChatRequest("sys", turns, opts)
	if err != nil {
		t.Fatalf("NewChatRequest() unexpected error: %v", err)
	}
	second, err := NewChatRequest("sys", turns, opts)
	if err != nil {
		t.Fatalf("NewChatRequest() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("NewChatRequest() not stable across identical calls: %+v vs %+v", first, second)
	}
}

func TestNewChatRequest_Options(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantModel  Model
		wantFormat *ResponseFormat
	}{
		{
			name:      "default model when unset",
			opts:      Options{},
			wantModel: ModelGPT4oMini,
		},
		{
			name:      "explicit model wins",
			opts:      Options{Model: ModelGPT4o},
			wantModel: ModelGPT4o,
		},
		{
			name:       "json flag sets response format",
			opts:       Options{JSON: true},
			wantModel:  ModelGPT4oMini,
			wantFormat: &ResponseFormat{Type: "json_object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewChatRequest("sys", []Turn{{User: ptr("hi")}}, tt.opts)
			if err != nil {
				t.Fatalf("NewChatRequest() unexpected error: %v", err)
			}

			if req.Model != tt.wantModel {
				t.Errorf("NewChatRequest() model = %v, want %v", req.Model, tt.wantModel)
			}

			if !reflect.DeepEqual(req.ResponseFormat, tt.wantFormat) {
				t.Errorf("NewChatRequest() response format = %v, want %v", req.ResponseFormat, tt.wantFormat)
			}
		})
	}
}

// The wire key set is fixed: optional keys serialize as null when unset
// rather than being dropped, and a zero value survives as 0.
func TestChatRequest_WireKeysAlwaysSerialized(t *testing.T) {
	req, err := NewChatRequest("sys", []Turn{{User: ptr("hi")}}, Options{
		Temperature: ptr(0.0),
	})
	if err != nil {
		t.Fatalf("NewChatRequest() unexpected error: %v", err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	for key, want := range map[string]string{
		"temperature":       "0",
		"max_tokens":        "null",
		"top_p":             "null",
		"presence_penalty":  "null",
		"frequency_penalty": "null",
		"response_format":   "null",
	} {
		got, ok := raw[key]
		if !ok {
			t.Errorf("Marshal() missing key %q", key)
			continue
		}
		if string(got) != want {
			t.Errorf("Marshal() %s = %s, want %s", key, got, want)
		}
	}

	for _, key := range []string{"model", "messages"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Marshal() missing key %q", key)
		}
	}

	if len(raw) != 8 {
		t.Errorf("Marshal() produced %d keys, want the fixed set of 8", len(raw))
	}
}

func TestParseChatResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "successful response",
			body: `{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hail!"},"finish_reason":"stop"}]}`,
			want: "Hail!",
		},
		{
			name:    "error envelope wins over choices",
			body:    `{"error":{"message":"model overloaded","type":"server_error"},"choices":[{"message":{"role":"assistant","content":"ignored"}}]}`,
			wantErr: &APIError{},
		},
		{
			name:    "no choices",
			body:    `{"id":"cmpl-2","object":"chat.completion","choices":[]}`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "not json",
			body:    `<html>bad gateway</html>`,
			wantErr: ErrMalformedResponse,
		},
		{
			name: "null error key is not an error",
			body: `{"error":null,"choices":[{"message":{"role":"assistant","content":"ok"}}]}`,
			want: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChatResponse([]byte(tt.body))

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("ParseChatResponse() expected error, got nil")
				}
				var apiErr *APIError
				if errors.As(tt.wantErr, &apiErr) {
					if !errors.As(err, &apiErr) {
						t.Errorf("ParseChatResponse() error = %v, want APIError", err)
					}
					return
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseChatResponse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseChatResponse() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseChatResponse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseChatResponse_APIErrorMessageVerbatim(t *testing.T) {
	body := `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`

	_, err := ParseChatResponse([]byte(body))
	if err == nil {
		t.Fatal("ParseChatResponse() expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ParseChatResponse() error = %v, want APIError", err)
	}
	if apiErr.Message != "Incorrect API key provided" {
		t.Errorf("APIError message = %q, want remote message verbatim", apiErr.Message)
	}
	if apiErr.Error() != "Incorrect API key provided" {
		t.Errorf("APIError.Error() = %q, want remote message verbatim", apiErr.Error())
	}
	if apiErr.Code != "invalid_api_key" {
		t.Errorf("APIError code = %q, want invalid_api_key", apiErr.Code)
	}
}
