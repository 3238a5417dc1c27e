// Package errs defines the error kinds returned by handlers and the
// persistence port, and the single place where they are mapped to HTTP
// statuses.
//
// Handlers return plain errors; the router converts them with ToHTTP so
// every hosting shape renders the same body for the same failure.
package errs

import "strings"

// FieldError is a field-level validation failure.
//
//	{ "field": "code", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the error shape surfaced to API clients.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`

	// Path is set on route resolution failures so the caller can see what
	// was requested.
	Path string `json:"path,omitempty"`

	Errors []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an HTTPError with the same code.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Path:    e.Path,
		Errors:  e.Errors,
	}
}

func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
