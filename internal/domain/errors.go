package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrBackend            = errors.New("backend error")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports bad user input, detected before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Backend wraps a store failure so callers can match ErrBackend while the
// underlying cause stays available to errors.Is. Domain errors and errors
// that are already wrapped pass through unchanged.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrBackend) || IsValidation(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
}
