package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotAuthenticated is returned when an operation requires a session
	// and none is active.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is returned when a token refresh fails and the
	// session cannot be recovered.
	ErrSessionExpired = errors.New("session expired")
)

// unknownErrorMessage is the fixed fallback when no better message exists.
const unknownErrorMessage = "unknown error"

// APIError is an application-level failure: any non-2xx response from the
// backend. The Message field carries the server-supplied message when the
// response body contained one.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int
	// Message is the server-supplied error message, if any.
	Message string
	// RequestID is the X-Request-ID the failing request was sent with.
	RequestID string
}

// Error returns a human-readable description of the failure.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// SessionExpiredError is returned when an authorization failure could not be
// recovered by a token refresh. The persisted token has been cleared by the
// time the caller sees this error.
type SessionExpiredError struct {
	// Cause is the refresh failure.
	Cause error
}

// Error returns a human-readable description of the expired session.
func (e *SessionExpiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session expired: %v", e.Cause)
	}
	return "session expired"
}

// Unwrap returns the underlying refresh failure.
func (e *SessionExpiredError) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is(err, ErrSessionExpired).
func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

// Message extracts the best available human-readable message from an error:
// the server-supplied message when present, then the error's own text, then
// a fixed fallback.
func Message(err error) string {
	if err == nil {
		return unknownErrorMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownErrorMessage
}
