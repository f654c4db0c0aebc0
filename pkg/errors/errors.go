package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Client-side errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeStorage    ErrorType = "STORAGE"

	// Boundary errors
	ErrorTypeNetwork ErrorType = "NETWORK"
	ErrorTypeBackend ErrorType = "BACKEND"

	// Everything else
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewStorageError creates an error for local persistence failures
func NewStorageError(message string) *AppError {
	return &AppError{Type: ErrorTypeStorage, Message: message}
}

// NewNetworkError creates an error for unreachable-backend failures
func NewNetworkError(message string) *AppError {
	return &AppError{Type: ErrorTypeNetwork, Message: message}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message}
}

// BackendError is returned for every non-2xx backend response. It
// carries the HTTP status code and the raw response body text so call
// sites can decide how to surface the failure. It is never retried at
// the gateway layer.
type BackendError struct {
	Status int
	Body   string
}

// Error implements the error interface
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend returned %d: %s", ErrorTypeBackend, e.Status, e.Body)
}

// IsBackend reports whether err is (or wraps) a BackendError, returning
// it when so.
func IsBackend(err error) (*BackendError, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsNotFound checks if an error is a not-found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeNotFound
	}
	if be, ok := IsBackend(err); ok {
		return be.Status == 404
	}
	return false
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return false
}
