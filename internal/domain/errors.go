package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals invalid input rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals a missing entry.
	ErrNotFound = errors.New("entry not found")
	// ErrBackend signals a non-2xx or malformed backend response.
	ErrBackend = errors.New("backend error")
	// ErrNetwork signals a transport failure before any response arrived.
	ErrNetwork = errors.New("network error")
	// ErrPrecondition signals an operation on an entry in the wrong state.
	ErrPrecondition = errors.New("precondition failed")
	// ErrSyncInFlight signals a sync attempt while another is still running.
	ErrSyncInFlight = errors.New("sync already in flight")
)

// BackendError wraps ErrBackend with the HTTP status and the
// backend-reported message.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %s", ErrBackend.Error(), e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrBackend.Error(), e.Message)
}

func (e *BackendError) Unwrap() error { return ErrBackend }

// NewBackendError creates a backend error from an HTTP status and message.
func NewBackendError(status int, message string) error {
	return &BackendError{Status: status, Message: message}
}
