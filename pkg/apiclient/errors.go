package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches API errors carrying a 404 status.
var ErrNotFound = errors.New("apiclient: user not found")

// ErrContractViolation wraps responses that do not match the users contract.
var ErrContractViolation = errors.New("apiclient: response violates contract")

// Error is returned for every non-2xx response.
type Error struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("apiclient: %s: %s %s: %d %s", e.Op, e.Method, e.Path, e.StatusCode, msg)
}

// Is reports ErrNotFound for 404 responses.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Temporary reports whether the status is worth retrying.
func (e *Error) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether err is, or wraps, a 404 API error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an API
// error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
