package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Session
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMissingSession   = errors.New("no session credential available")
	ErrMalformedSession = errors.New("session token is malformed")

	// Remote ticket API
	ErrRemoteUnavailable = errors.New("remote ticket service unavailable")
	ErrRemoteRejected    = errors.New("remote ticket service rejected the request")
	ErrMalformedResponse = errors.New("remote response has an unexpected shape")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrInvalidTicketID   = errors.New("invalid ticket ID")
	ErrInvalidStatus     = errors.New("invalid ticket status")

	// Local persistence
	ErrStorageUnavailable = errors.New("interaction storage unavailable")
	ErrKeyNotFound        = errors.New("storage key not found")

	// Export
	ErrExportFailed = errors.New("export failed")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

// RemoteStatusError records a non-2xx answer from the remote API.
type RemoteStatusError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *RemoteStatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap classifies the status so callers can use errors.Is.
func (e *RemoteStatusError) Unwrap() error {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return ErrUnauthorized
	case e.StatusCode == 404:
		return ErrTicketNotFound
	case e.StatusCode >= 500:
		return ErrRemoteUnavailable
	default:
		return ErrRemoteRejected
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
