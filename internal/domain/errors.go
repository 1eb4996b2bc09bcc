package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface keeps the handler-side mapping extensible.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input; the action is blocked
	// locally and no state is mutated.
	ValidationError struct {
		Message string
	}

	// AuthError indicates a missing or rejected API credential.
	// AI actions are blocked until the user supplies a valid key.
	AuthError struct {
		Message string
	}

	// StorageError indicates the local store is unavailable or corrupt.
	// Callers degrade to an empty state and continue.
	StorageError struct {
		Message string
	}

	// NetworkError indicates a transport-level failure talking to the
	// completion endpoint. The action is aborted; no retry.
	NetworkError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }
func (e *AuthError) Error() string       { return e.Message }
func (e *StorageError) Error() string    { return e.Message }
func (e *NetworkError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *AuthError) StatusCode() int       { return http.StatusUnauthorized }
func (e *StorageError) StatusCode() int    { return http.StatusServiceUnavailable }
func (e *NetworkError) StatusCode() int    { return http.StatusBadGateway }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("missing or invalid API key")
	ErrStorage    = errors.New("local store unavailable")
	ErrNetwork    = errors.New("network failure")
)

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *AuthError) Is(target error) bool       { return target == ErrAuth }
func (e *StorageError) Is(target error) bool    { return target == ErrStorage }
func (e *NetworkError) Is(target error) bool    { return target == ErrNetwork }

// APIError represents a non-success HTTP status from the completion
// endpoint. It carries the upstream status code so the UI can explain
// what happened; the action is aborted and its trigger re-enabled.
type APIError struct {
	Status  int    // upstream HTTP status
	Message string // response body or status text
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("completion API returned %d: %s", e.Status, e.Message)
}

// StatusCode implements the HTTPError interface. Upstream failures are
// surfaced as 502; the upstream code itself travels in the response body.
func (e *APIError) StatusCode() int {
	return http.StatusBadGateway
}
