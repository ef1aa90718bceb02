package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used to classify DomainError instances.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state")
)

// DomainError carries a classified error across layer boundaries so the
// HTTP layer can map it to a status code without string matching.
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Err }

// NewNotFoundError reports that an entity could not be found by the given key.
func NewNotFoundError(entity, key string) *DomainError {
	return &DomainError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with identifier %s not found", entity, key),
	}
}

// NewConflictError reports a concurrent-modification or uniqueness conflict.
func NewConflictError(message string) *DomainError {
	return &DomainError{Err: ErrConflict, Message: message}
}

// NewValidationError reports malformed or missing required input. It is the
// only error kind surfaced verbatim to callers before any pricing runs.
func NewValidationError(message string) *DomainError {
	return &DomainError{Err: ErrValidation, Message: message}
}

// NewInvalidStateError reports an illegal aggregate state transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{
		Err:     ErrInvalidState,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
