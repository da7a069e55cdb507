package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/filipehb/se-uo-shard/internal/openai"
	"github.com/filipehb/se-uo-shard/internal/service"
	"github.com/filipehb/se-uo-shard/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	// This suppresses logs from slog.Default() used in the service layer
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ptr[T any](v T) *T {
	return &v
}

func TestNewCompletionService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewCompletionService(mockLLMClient)

	if svc == nil {
		t.Fatal("NewCompletionService() returned nil")
	}
}

func TestCompletionService_Complete(t *testing.T) {
	upstreamErr := errors.New("connection refused")

	tests := []struct {
		name         string
		req          service.CompleteRequest
		mockSetup    func(llm *mocks.MockLLMClient)
		wantErr      bool
		wantText     string
		checkErrType func(error) bool
	}{
		{
			name: "successful completion",
			req: service.CompleteRequest{
				System: "You are a stable master.",
				Turns:  []openai.Turn{{User: ptr("How much for a horse?")}},
			},
			mockSetup: func(llm *mocks.MockLLMClient) {
				llm.EXPECT().
					Completion(gomock.Any(), "You are a stable master.", []openai.Turn{{User: ptr("How much for a horse?")}}, openai.Options{}).
					Return("Fifty gold, saddle included.", nil)
			},
			wantErr:  false,
			wantText: "Fifty gold, saddle included.",
		},
		{
			name: "options are passed through",
			req: service.CompleteRequest{
				System:  "sys",
				Turns:   []openai.Turn{{User: ptr("hi")}},
				Options: openai.Options{Model: openai.ModelGPT4o, Temperature: ptr(0.0), JSON: true},
			},
			mockSetup: func(llm *mocks.MockLLMClient) {
				llm.EXPECT().
					Completion(gomock.Any(), "sys", gomock.Any(), openai.Options{Model: openai.ModelGPT4o, Temperature: ptr(0.0), JSON: true}).
					Return("{}", nil)
			},
			wantErr:  false,
			wantText: "{}",
		},
		{
			name: "invalid turns propagate",
			req: service.CompleteRequest{
				System: "sys",
				Turns:  []openai.Turn{{}},
			},
			mockSetup: func(llm *mocks.MockLLMClient) {
				llm.EXPECT().
					Completion(gomock.Any(), "sys", []openai.Turn{{}}, openai.Options{}).
					Return("", openai.ErrInvalidInput)
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				return errors.Is(err, openai.ErrInvalidInput)
			},
		},
		{
			name: "upstream failure is wrapped",
			req: service.CompleteRequest{
				System: "sys",
				Turns:  []openai.Turn{{User: ptr("hi")}},
			},
			mockSetup: func(llm *mocks.MockLLMClient) {
				llm.EXPECT().
					Completion(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", upstreamErr)
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				return errors.Is(err, upstreamErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLLMClient := mocks.NewMockLLMClient(ctrl)
			tt.mockSetup(mockLLMClient)

			svc := service.NewCompletionService(mockLLMClient)
			resp, err := svc.Complete(context.Background(), tt.req)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Complete() expected error, got nil")
				}
				if tt.checkErrType != nil && !tt.checkErrType(err) {
					t.Errorf("Complete() error = %v, wrong error type", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Complete() unexpected error: %v", err)
			}
			if resp.Text != tt.wantText {
				t.Errorf("Complete() text = %v, want %v", resp.Text, tt.wantText)
			}
		})
	}
}
