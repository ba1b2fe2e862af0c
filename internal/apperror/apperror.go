// Package apperror holds the typed failures shared by the document engine and its adapters.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotConfigured     Kind = "NOT_CONFIGURED"
	KindDuplicateDocument Kind = "DUPLICATE_DOCUMENT"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindAlreadySigned     Kind = "ALREADY_SIGNED"
	KindWrongState        Kind = "WRONG_STATE"
	KindRemoteUnavailable Kind = "REMOTE_UNAVAILABLE"
	KindMalformedRules    Kind = "MALFORMED_RULES"
	KindNotFound          Kind = "NOT_FOUND"
	KindForbidden         Kind = "FORBIDDEN"
	KindInvalidRequest    Kind = "INVALID_REQUEST"
)

// Error carries a kind, a short message safe to show to callers, and the
// underlying cause for operator logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind when the target carries no message,
// so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrNotConfigured     = &Error{Kind: KindNotConfigured}
	ErrDuplicateDocument = &Error{Kind: KindDuplicateDocument}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrAlreadySigned     = &Error{Kind: KindAlreadySigned}
	ErrWrongState        = &Error{Kind: KindWrongState}
	ErrRemoteUnavailable = &Error{Kind: KindRemoteUnavailable}
	ErrMalformedRules    = &Error{Kind: KindMalformedRules}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrInvalidRequest    = &Error{Kind: KindInvalidRequest}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotConfigured(format string, args ...any) *Error {
	return New(KindNotConfigured, format, args...)
}

func DuplicateDocument(format string, args ...any) *Error {
	return New(KindDuplicateDocument, format, args...)
}

// InvalidTransition names both the current and the requested state.
func InvalidTransition(from, to string) *Error {
	return New(KindInvalidTransition, "cannot move document from %s to %s", from, to)
}

func AlreadySigned(format string, args ...any) *Error {
	return New(KindAlreadySigned, format, args...)
}

func WrongState(format string, args ...any) *Error {
	return New(KindWrongState, format, args...)
}

func RemoteUnavailable(err error, format string, args ...any) *Error {
	return Wrap(KindRemoteUnavailable, err, format, args...)
}

func MalformedRules(err error, format string, args ...any) *Error {
	return Wrap(KindMalformedRules, err, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

func InvalidRequest(format string, args ...any) *Error {
	return New(KindInvalidRequest, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the caller-safe message, falling back to a generic text for untyped errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal error"
}
