// Package apperr defines the error taxonomy shared by services and handlers.
// Every user-facing failure carries a stable machine-readable kind plus a
// human-readable message; handlers map kinds to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindUnauthenticated Kind = "unauthenticated"
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindUnavailable     Kind = "unavailable"
	KindInternal        Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	err     error // wrapped cause, never exposed to clients
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a kinded error. The cause is kept for logs only.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, err: err}
}

func Validation(message string) *Error      { return New(KindValidation, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func Unavailable(message string) *Error     { return New(KindUnavailable, message) }
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf extracts the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
