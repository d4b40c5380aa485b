// Package apperrors defines the outcome kinds returned by the entity services.
// Every failure leaving a service is an *Error carrying one of these kinds, and
// the request layer maps kinds onto status codes.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
	KindConflict     Kind = "conflict"
	KindDataAccess   Kind = "data_access"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindDataAccess {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// DataAccess wraps an unexpected store failure. The message is safe to show
// to clients; the wrapped error is not.
func DataAccess(err error, format string, args ...any) *Error {
	return &Error{Kind: KindDataAccess, Message: fmt.Sprintf(format, args...), Err: err}
}

// Wrap attaches a kind and a client-facing message to err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of err. Errors outside the taxonomy are DataAccess.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindDataAccess
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func IsNotFound(err error) bool {
	return Is(err, KindNotFound)
}

// Relabel keeps the kind of err but replaces its message. Errors outside the
// taxonomy are wrapped as DataAccess.
func Relabel(err error, format string, args ...any) *Error {
	return &Error{Kind: KindOf(err), Message: fmt.Sprintf(format, args...), Err: err}
}
