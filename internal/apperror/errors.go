// Package apperror provides error types that carry an HTTP status code and a
// client-safe message. The echo error handler maps them to responses.
//
// Raw infrastructure errors (redis, postgres, S3) never reach the client;
// they are wrapped with NewInternal or NewUnavailable first.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the base error type for all domain errors.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 400, 500).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "not_found").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    "not_found",
		Message: message,
	}
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

// NewValidation creates a 422 Unprocessable Entity error for input that
// parses but cannot be served, such as a year outside the calendar range.
func NewValidation(message string, cause error) *AppError {
	return &AppError{
		Code:     http.StatusUnprocessableEntity,
		Type:     "validation_error",
		Message:  message,
		Internal: cause,
	}
}

// NewUnavailable creates a 503 error for optional backends that are not
// configured (e.g. export without an S3 bucket).
func NewUnavailable(message string) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Type:    "unavailable",
		Message: message,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// SafeMessage returns the client-safe message of an AppError anywhere in
// err's chain, or a generic message for any other error.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code of an AppError anywhere in err's
// chain, or 500 for any other error.
func SafeCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
