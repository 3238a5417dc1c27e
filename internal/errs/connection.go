package errs

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrMissingConnectionString is wrapped in a ConnectionError when the
// persistence port has no URI to dial.
var ErrMissingConnectionString = errors.New("database connection string is not configured")

// ConnectionError marks a failure to reach or configure the backing store.
type ConnectionError struct {
	Op  string
	Err error
}

func NewConnectionError(op string, err error) *ConnectionError {
	return &ConnectionError{Op: op, Err: err}
}

func (e *ConnectionError) Error() string {
	if e.Op == "" {
		return "database connection: " + e.Err.Error()
	}
	return "database " + e.Op + ": " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

var connectivityPatterns = []string{
	"connection refused",
	"connection reset",
	"server selection",
	"no reachable servers",
	"timed out",
	"timeout",
	"i/o timeout",
	"econnrefused",
	"enotfound",
	"no such host",
}

// IsConnectivity reports whether err looks like the store being
// unreachable, as opposed to misconfigured or rejecting the request.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingConnectionString) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range connectivityPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// ToHTTP classifies any error into the HTTPError rendered to clients.
// Unknown errors never carry their message outward.
func ToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var connErr *ConnectionError
	isConn := errors.As(err, &connErr)
	if IsConnectivity(err) {
		return NewServiceUnavailableError("database unavailable, try again shortly")
	}
	if isConn {
		return NewInternalServerError().WithMessage("database is not available")
	}
	return NewInternalServerError()
}

// StatusOf is a shorthand for ToHTTP(err).Status, 200 for nil.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return ToHTTP(err).Status
}
