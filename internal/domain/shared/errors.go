package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error. The HTTP layer maps each kind to a
// status code; callers use it to decide whether a retry makes sense.
type ErrorKind string

const (
	KindValidation      ErrorKind = "VALIDATION_ERROR"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindInvalidState    ErrorKind = "INVALID_STATE_TRANSITION"
	KindConflict        ErrorKind = "CONFLICT"
	KindPersistence     ErrorKind = "PERSISTENCE_ERROR"
	KindUnauthenticated ErrorKind = "UNAUTHENTICATED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError with the same kind and code, so sentinel
// values below can be used with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithCause returns a copy of the error carrying cause
func (e *DomainError) WithCause(cause error) *DomainError {
	cp := *e
	cp.Err = cause
	return &cp
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a ValidationError
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message)
}

// NewInvalidStateError creates an InvalidStateTransition error
func NewInvalidStateError(code, message string) *DomainError {
	return NewDomainError(KindInvalidState, code, message)
}

// NewConflictError creates a ConflictError
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// NewPersistenceError wraps a store failure
func NewPersistenceError(op string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindPersistence,
		Code:    "PERSISTENCE_ERROR",
		Message: op,
		Err:     cause,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState      = NewInvalidStateError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewConflictError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrUnauthenticated   = NewDomainError(KindUnauthenticated, "UNAUTHENTICATED", "Acting user is required")
)

// KindOf returns the kind of err, or "" when err is not a DomainError
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInvalidState reports whether err is an InvalidStateTransition error
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsPersistence reports whether err is a PersistenceError
func IsPersistence(err error) bool { return KindOf(err) == KindPersistence }
