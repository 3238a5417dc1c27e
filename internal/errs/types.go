package errs

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	CodeRouteNotFound  = "ROUTE_NOT_FOUND"
	CodeInvalidHandler = "INVALID_HANDLER"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrValidation       = &HTTPError{Code: MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))}
	ErrNotFound         = &HTTPError{Code: MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))}
	ErrRouteNotFound    = &HTTPError{Code: CodeRouteNotFound}
	ErrMethodNotAllowed = &HTTPError{Code: MakeUpperCaseWithUnderscores(http.StatusText(http.StatusMethodNotAllowed))}
	ErrInvalidHandler   = &HTTPError{Code: CodeInvalidHandler}
)

func NewValidationError(message string, fields []FieldError) *HTTPError {
	return &HTTPError{
		Code:    ErrValidation.Code,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  fields,
	}
}

func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    ErrNotFound.Code,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewRouteNotFoundError reports a path no registered handler answers.
func NewRouteNotFoundError(path string) *HTTPError {
	return &HTTPError{
		Code:    CodeRouteNotFound,
		Message: fmt.Sprintf("no handler for path %q", path),
		Status:  http.StatusNotFound,
		Path:    path,
	}
}

func NewMethodNotAllowedError(method string, allowed []string) *HTTPError {
	return &HTTPError{
		Code:    ErrMethodNotAllowed.Code,
		Message: fmt.Sprintf("method %s not allowed, use %s", method, strings.Join(allowed, ", ")),
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewInvalidHandlerError reports a route whose target cannot be invoked.
func NewInvalidHandlerError(route string) *HTTPError {
	return &HTTPError{
		Code:    CodeInvalidHandler,
		Message: fmt.Sprintf("route %q has no invocable handler", route),
		Status:  http.StatusInternalServerError,
		Path:    route,
	}
}

func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

func NewServiceUnavailableError(message string) *HTTPError {
	return &HTTPError{
		Code:    CodeUnavailable,
		Message: message,
		Status:  http.StatusServiceUnavailable,
	}
}
