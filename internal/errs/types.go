package errs

import "strings"

// FieldError is a field-level validation error.
//
//	{ "field": "password", "error": "is required" }
type FieldError struct {
	// Field is the wire name of the offending field.
	Field string `json:"field"`

	// Error is the human-readable message.
	Error string `json:"error"`
}

// HTTPError is the error type rendered by the global error handler.
//
// Fields:
//   - Code: machine-friendly code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: lets middleware replace the message before it is sent.
//   - Errors: per-field errors.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`

	// cause is kept for logs only and never serialized.
	cause error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the error this HTTPError was translated from, if any.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is matches any *HTTPError, regardless of code or status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
