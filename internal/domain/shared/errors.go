package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a recoverable domain error so the HTTP boundary can
// map it to a status code without inspecting messages.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindInvalidRange      ErrorKind = "invalid_range"
	KindInvalidDate       ErrorKind = "invalid_date"
	KindNotFound          ErrorKind = "not_found"
	KindAccessDenied      ErrorKind = "access_denied"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindCarUnavailable    ErrorKind = "car_unavailable"
	KindConflict          ErrorKind = "conflict"
)

// Error is a recoverable domain error. None of these are fatal to the
// process; all surface as a user-facing message at the request boundary.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewInvalidRangeError indicates a date range whose end precedes its start.
func NewInvalidRangeError(message string) *Error {
	return &Error{Kind: KindInvalidRange, Message: message}
}

// NewInvalidDateError indicates a booking start date in the past.
func NewInvalidDateError(message string) *Error {
	return &Error{Kind: KindInvalidDate, Message: message}
}

// NewNotFoundError creates a not-found error for the given resource and id.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewAccessDeniedError creates an ownership or role violation error.
func NewAccessDeniedError(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

// NewInvalidTransitionError creates an illegal status change error.
func NewInvalidTransitionError(from, to string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf("cannot transition booking from %s to %s", from, to)}
}

// NewCarUnavailableError indicates an overlapping booking or a car marked
// unavailable.
func NewCarUnavailableError(message string) *Error {
	return &Error{Kind: KindCarUnavailable, Message: message}
}

// NewConflictError indicates a concurrent modification detected by
// optimistic locking.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of err if it is a domain Error, or "" otherwise.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
