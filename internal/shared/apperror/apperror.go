// Package apperror carries the error taxonomy the service layers speak.
// Handlers translate kinds into HTTP statuses; everything below them only
// classifies, so the transport never leaks into the domain.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
)

// Error is a classified error. Message is safe to show to a client; the
// wrapped cause is not and stays out of Error().
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a classified error with a client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies a cause under a client-safe message. The cause stays
// reachable through errors.Is/As but never renders in Error().
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf reports the kind of an error, walking the wrap chain. A non-nil
// error that was never classified counts as a storage failure.
func KindOf(err error) Kind {
	if err == nil {
		return Kind("")
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindStorage
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
