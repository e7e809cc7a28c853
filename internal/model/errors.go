package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the repositories matches one of these
// with errors.Is.
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateKey           = errors.New("duplicate key value")
	ErrForeignKeyViolation    = errors.New("foreign key violation")
	ErrCapacityExceeded       = errors.New("capacity exceeded")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrValidation             = errors.New("validation failed")
)

// Specific errors, each wrapping one kind.
var (
	ErrDuplicateName            = newKindError(ErrDuplicateKey, "name already exists")
	ErrDuplicateEmail           = newKindError(ErrDuplicateKey, "email already registered")
	ErrDuplicateProviderAccount = newKindError(ErrDuplicateKey, "provider account already linked")
	ErrAlreadyRegistered        = newKindError(ErrDuplicateKey, "user already registered for event")

	ErrParentNotFound = newKindError(ErrForeignKeyViolation, "referenced record not found")
	ErrHasDependents  = newKindError(ErrForeignKeyViolation, "record still has dependents")

	ErrTokenNotFoundOrExpired = newKindError(ErrNotFound, "verification token not found or expired")
	ErrEventFull              = newKindError(ErrCapacityExceeded, "event is full")
	ErrEventNotOpen           = newKindError(ErrInvalidStateTransition, "event is not open for registration")
	ErrLocationMismatch       = newKindError(ErrValidation, "neighborhood does not belong to district")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// ValidationError represents a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TransitionError describes a rejected status change.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move from %s to %s", e.Entity, e.From, e.To)
}

// Unwrap lets errors.Is match ErrInvalidStateTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}
