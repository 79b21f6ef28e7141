package domain

import (
	"errors"
	"fmt"
)

// Authentication / authorization.
var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("invalid token")
	ErrForbidden          = errors.New("not enough permissions")
	ErrInactiveUser       = errors.New("inactive user")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// ErrAuthenticationRequired is returned when a protected action is attempted
// without a verified identity. It matches ErrForbidden under errors.Is.
var ErrAuthenticationRequired = fmt.Errorf("%w: authentication required", ErrForbidden)

// Repository errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)

	ErrConflict      = errors.New("conflict")
	ErrUsernameTaken = fmt.Errorf("%w: username already registered", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email already registered", ErrConflict)
)

// Upload errors.
var (
	ErrFileRejected = errors.New("file rejected")
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrFileRejected)
	ErrFileType     = fmt.Errorf("%w: file type not allowed", ErrFileRejected)
	ErrTooManyFiles = fmt.Errorf("%w: too many files", ErrFileRejected)
)

// ErrValidation is the kind shared by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a field constraint violation.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
