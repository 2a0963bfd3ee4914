package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Transport / backend errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("server unavailable")
	// ErrCancelled marks a request superseded or torn down locally.
	// Callers swallow it; it is never a user-facing failure.
	ErrCancelled = errors.New("request cancelled")

	// Validation errors, raised before any request is sent.
	ErrEmptyTitle        = errors.New("title must not be empty")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrShortPassword     = errors.New("password must be at least 6 characters")
	ErrInvalidPermission = errors.New("permission must be \"read\" or \"write\"")
)

// StatusError carries the backend's HTTP status and message across the
// transport boundary in normalized form. It unwraps to the sentinel
// matching its status so callers can use errors.Is.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}
