// Package apperror defines the error kinds surfaced by services and mapped
// to HTTP statuses by the handlers.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrStore              = errors.New("store error")
)

type AppError struct {
	Err     error  // one of the sentinels above
	Message string // safe to show to the caller
	Field   string // optional: request field that failed validation
	Cause   error  // underlying driver error, for logs only
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func InvalidInput(field, message string) *AppError {
	return &AppError{Err: ErrInvalidInput, Message: message, Field: field}
}

func DuplicateEmail() *AppError {
	return &AppError{Err: ErrDuplicateEmail, Message: "a user with this email already exists"}
}

// InvalidCredentials is deliberately the same for an unknown email and a
// wrong password.
func InvalidCredentials() *AppError {
	return &AppError{Err: ErrInvalidCredentials, Message: "invalid email or password"}
}

func NotFound(resource string, id any) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s %v not found", resource, id)}
}

// Store wraps an unclassified persistence failure. The cause is kept for
// logging; Message never includes it.
func Store(op string, cause error) *AppError {
	return &AppError{Err: ErrStore, Message: op + " failed", Cause: cause}
}

// Kind returns the sentinel carried by err, or ErrStore for anything that
// was not classified.
func Kind(err error) error {
	for _, k := range []error{ErrInvalidInput, ErrDuplicateEmail, ErrInvalidCredentials, ErrNotFound, ErrStore} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrStore
}

// Public returns the message that may be shown to a caller.
func Public(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && !errors.Is(appErr.Err, ErrStore) {
		return appErr.Message
	}
	return "an internal error occurred"
}
