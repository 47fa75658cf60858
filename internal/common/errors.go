// Package common defines shared constants and sentinel errors used across
// the knowledgehub server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors. Usually wrapped into a *ValidationError carrying the field.
	ErrorValidation = errors.New("validation error")

	// Auth errors. Expired, forged, malformed and wrongly shaped tokens all
	// collapse into this single value.
	ErrInvalidToken = errors.New("invalid token")

	// Storage errors.
	ErrStorageUnavailable = errors.New("storage not available")
)

// ValidationError reports the first offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap makes errors.Is(err, ErrorValidation) hold for every ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrorValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
