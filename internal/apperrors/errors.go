// Package apperrors defines the error taxonomy shared by repositories,
// handlers and the storage layer, and its mapping to HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError signals bad input shape or value (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError signals an absent referenced entity (404).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFound(message string) error {
	return &NotFoundError{Message: message}
}

// ConflictError signals a duplicate unique key, e.g. an already
// registered email (409).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflict(message string) error {
	return &ConflictError{Message: message}
}

// AuthError signals bad credentials or an expired/invalid token (401).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func NewAuth(message string) error {
	return &AuthError{Message: message}
}

// StorageError wraps an adapter-level failure, e.g. a failed batch (500).
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s", e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorage(err error) error {
	return &StorageError{Err: err}
}

// HTTPStatus maps an error to the status code of its kind.
// Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		authErr       *AuthError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to echo to the client.
// Internal (500-class) detail is replaced by a generic message;
// the caller is expected to log the original error.
func ClientMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
