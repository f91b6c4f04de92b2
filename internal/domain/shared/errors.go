package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures so the transport layer can map them
// to responses without inspecting messages.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindForbidden  ErrorKind = "forbidden"
	KindConflict   ErrorKind = "conflict"
)

// DomainError is the error type returned by domain and application code.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationError reports caller-fixable bad input (inverted or past intervals, blank fields).
func NewValidationError(message string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity string, id string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("there is no %s with id=%s", entity, id)}
}

// NewForbiddenError reports an actor lacking the relationship required for an operation.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: message}
}

// NewConflictError reports a state conflict (unavailable item, overlapping
// interval, concurrent modification, terminal status transition).
func NewConflictError(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of err if it is a DomainError, or "" otherwise.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a conflict domain error.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
