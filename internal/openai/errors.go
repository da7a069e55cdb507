package openai

import "errors"

var (
	// ErrInvalidInput reports malformed caller input. It is always
	// returned before any network traffic happens.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedResponse reports a response body that could not be
	// decoded, or decoded into something missing the expected fields.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUpstream reports a transport-level failure: the request never
	// completed, or the API answered with a non-2xx status and no
	// parseable error envelope.
	ErrUpstream = errors.New("upstream failure")
)

// APIError is an error reported by the OpenAI API itself, carried in the
// body's "error" envelope. The envelope can appear with any HTTP status,
// so its presence, not the status code, decides whether a response is an
// error.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Param   string `json:"param,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Error returns the remote message verbatim.
func (e *APIError) Error() string {
	return e.Message
}
