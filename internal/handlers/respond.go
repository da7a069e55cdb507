package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/filipehb/se-uo-shard/internal/contextutil"
	"github.com/filipehb/se-uo-shard/internal/openai"
	"github.com/filipehb/se-uo-shard/internal/service"
)

// ErrorBody carries the message inside an error response.
type ErrorBody struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. The envelope mirrors the
// upstream API's error shape, so callers can use the same error-key
// discriminant for both.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Error: ErrorBody{Message: message},
	})
}

// Two top-level fields keep the messages callers match on: the system
// prompt reports as "systemMessage" and the turns list under its legacy
// name "questions".
var decodeFieldMessages = map[string]string{
	"system": "systemMessage must be a string",
	"turns":  "questions must be an array",
}

// decodeErrorMessage turns a JSON decode failure into a client-facing
// message, naming the offending field on a type mismatch.
func decodeErrorMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		if msg, ok := decodeFieldMessages[typeErr.Field]; ok {
			return msg
		}
		return fmt.Sprintf("%s must be %s", typeErr.Field, jsonTypeName(typeErr.Type))
	}
	return "Invalid request body"
}

// jsonTypeName names the JSON type a Go type decodes from.
func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Map, reflect.Struct:
		return "an object"
	default:
		return "a " + t.Kind().String()
	}
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	// Builder rejections carry the offending turn index; pass them on.
	if errors.Is(err, openai.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Check for wrapped errors
	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	if errors.Is(err, service.ErrPromptFlagged) {
		writeError(w, http.StatusForbidden, "Prompt flagged by moderation")
		return
	}

	// The upstream API's own message passes through verbatim.
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		writeError(w, http.StatusBadGateway, apiErr.Message)
		return
	}

	if errors.Is(err, openai.ErrMalformedResponse) {
		writeError(w, http.StatusBadGateway, "Invalid upstream response")
		return
	}

	if errors.Is(err, openai.ErrUpstream) || errors.Is(err, service.ErrExternalService) {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}

	// Default to internal server error
	writeError(w, http.StatusInternalServerError, defaultMsg)
}
