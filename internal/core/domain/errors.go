package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrAuthentication    = errors.New("invalid credentials")
	ErrAuthorization     = errors.New("not authorized")
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage unavailable")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrConflict          = errors.New("conflict")
	ErrRateLimited       = errors.New("too many attempts")
)

// A ValidationError describes a rejected input field.
//
// It matches [ErrValidation] with [errors.Is].
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) ValidationError {
	return ValidationError{Field: field, Reason: reason}
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e ValidationError) Unwrap() error {
	return ErrValidation
}

// A TransitionError reports a status change rejected by the transition policy.
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %q to %q", e.From, e.To)
}

func (e TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
