package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/filipehb/se-uo-shard/internal/openai"
	"github.com/filipehb/se-uo-shard/internal/service"
	"github.com/filipehb/se-uo-shard/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestNewModerateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockModerationService := mocks.NewMockModerationService(ctrl)
	handler := NewModerateHandler(mockModerationService)

	if handler == nil {
		t.Fatal("NewModerateHandler() returned nil")
	}
	if handler.moderationService != mockModerationService {
		t.Error("NewModerateHandler() moderationService not set correctly")
	}
}

func TestModerateHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		method       string
		body         any
		mockSetup    func(*mocks.MockModerationService)
		wantStatus   int
		wantErrorMsg string
		wantFlagged  *bool
	}{
		{
			name:   "clean prompt",
			method: http.MethodPost,
			body:   ModerateRequest{Prompt: "Where is the bank?"},
			mockSetup: func(m *mocks.MockModerationService) {
				m.EXPECT().
					CheckPrompt(gomock.Any(), "Where is the bank?").
					Return(service.ModerationVerdict{Flagged: false}, nil)
			},
			wantStatus:  http.StatusOK,
			wantFlagged: ptr(false),
		},
		{
			name:   "flagged prompt",
			method: http.MethodPost,
			body:   ModerateRequest{Prompt: "something vile"},
			mockSetup: func(m *mocks.MockModerationService) {
				m.EXPECT().
					CheckPrompt(gomock.Any(), "something vile").
					Return(service.ModerationVerdict{Flagged: true}, nil)
			},
			wantStatus:  http.StatusOK,
			wantFlagged: ptr(true),
		},
		{
			name:   "empty prompt",
			method: http.MethodPost,
			body:   ModerateRequest{Prompt: ""},
			mockSetup: func(m *mocks.MockModerationService) {
				// No calls expected
			},
			wantStatus:   http.StatusBadRequest,
			wantErrorMsg: "Prompt is required",
		},
		{
			name:   "method not allowed",
			method: http.MethodGet,
			mockSetup: func(m *mocks.MockModerationService) {
				// No calls expected
			},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:   "invalid JSON body",
			method: http.MethodPost,
			body:   "{invalid",
			mockSetup: func(m *mocks.MockModerationService) {
				// No calls expected
			},
			wantStatus:   http.StatusBadRequest,
			wantErrorMsg: "Invalid request body",
		},
		{
			name:   "mistyped prompt names the field",
			method: http.MethodPost,
			body:   `{"prompt": 42}`,
			mockSetup: func(m *mocks.MockModerationService) {
				// No calls expected
			},
			wantStatus:   http.StatusBadRequest,
			wantErrorMsg: "prompt must be a string",
		},
		{
			name:   "upstream failure returns 502",
			method: http.MethodPost,
			body:   ModerateRequest{Prompt: "hello"},
			mockSetup: func(m *mocks.MockModerationService) {
				m.EXPECT().
					CheckPrompt(gomock.Any(), "hello").
					Return(service.ModerationVerdict{}, service.WrapError(fmt.Errorf("%w: connection refused", openai.ErrUpstream), "failed to moderate prompt"))
			},
			wantStatus:   http.StatusBadGateway,
			wantErrorMsg: "External service error",
		},
		{
			name:   "upstream API error message passes through verbatim",
			method: http.MethodPost,
			body:   ModerateRequest{Prompt: "hello"},
			mockSetup: func(m *mocks.MockModerationService) {
				m.EXPECT().
					CheckPrompt(gomock.Any(), "hello").
					Return(service.ModerationVerdict{}, service.WrapError(&openai.APIError{Message: "Rate limit reached"}, "failed to moderate prompt"))
			},
			wantStatus:   http.StatusBadGateway,
			wantErrorMsg: "Rate limit reached",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockModerationService := mocks.NewMockModerationService(ctrl)
			tt.mockSetup(mockModerationService)

			handler := NewModerateHandler(mockModerationService)

			req := httptest.NewRequest(tt.method, "/api/moderate", bytes.NewBuffer(marshalBody(t, tt.body)))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if tt.wantFlagged != nil {
				var resp ModerateResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("ServeHTTP() invalid JSON: %v", err)
				}
				if resp.Flagged != *tt.wantFlagged {
					t.Errorf("ServeHTTP() flagged = %v, want %v", resp.Flagged, *tt.wantFlagged)
				}
			}

			if tt.wantErrorMsg != "" {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("ServeHTTP() invalid error JSON: %v", err)
				}
				if resp.Error.Message != tt.wantErrorMsg {
					t.Errorf("ServeHTTP() error message = %q, want %q", resp.Error.Message, tt.wantErrorMsg)
				}
			}
		})
	}
}
