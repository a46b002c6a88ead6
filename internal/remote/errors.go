package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors.
var (
	ErrNoResults        = errors.New("no results returned")
	ErrRetriesExhausted = errors.New("retries exhausted")
	ErrEmptyBatch       = errors.New("batch contains no statements")
	ErrNoInsertID       = errors.New("no last insert rowid in result")
	ErrBaseURLEmpty     = errors.New("database url must not be empty")
)

// RemoteError is a structured SQL error reported by the server, such as a
// malformed statement or a constraint violation. It is never retried.
type RemoteError struct {
	Message string
	Code    string
}

func (e *RemoteError) Error() string {
	return "remote sql error: " + e.Message
}

// TransportError is returned once every attempt failed with a transient
// error. Cause is the last underlying failure.
type TransportError struct {
	Attempts int
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pipeline request failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is lets callers test for ErrRetriesExhausted.
func (e *TransportError) Is(target error) bool {
	return target == ErrRetriesExhausted
}

// StatusError is a non-2xx HTTP response. Temporary statuses (5xx, 429) are
// retried; the rest fail immediately.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pipeline endpoint returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ProtocolError is a response the client could not interpret. It is never
// retried.
type ProtocolError struct {
	Reason string
	Cause  error
}

func (e *ProtocolError) Error() string {
	if e.Cause == nil || e.Cause.Error() == e.Reason {
		return "pipeline protocol error: " + e.Reason
	}
	return fmt.Sprintf("pipeline protocol error: %s: %v", e.Reason, e.Cause)
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}
