// Package common defines shared constants and sentinel errors used across
// accountd components. Callers should use errors.Is to match the sentinels
// and errors.As for *ValidationError.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound   = errors.New("not found")
	ErrorEmailTaken = errors.New("email already taken")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Authentication errors. ErrorInvalidCredentials is deliberately the only
	// failure Authenticate returns for unknown users, wrong passwords and
	// inactive accounts alike, so callers cannot probe which addresses exist.
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid or malformed token).
	ErrorInvalidToken = errors.New("invalid token")
)

// ValidationError reports a field-scoped input problem. The caller is expected
// to fix the named field and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a *ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
