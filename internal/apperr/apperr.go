// Package apperr defines the error taxonomy shared by the domain services.
//
// Messages carried by an *Error are user-facing and localized; the wrapped
// cause, when present, is for logs only.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind int

const (
	// KindUnexpected is any failure not classified below.
	KindUnexpected Kind = iota
	// KindValidation marks invalid input.
	KindValidation
	// KindNotFound marks a missing or inaccessible entity.
	KindNotFound
	// KindConflict marks a uniqueness violation.
	KindConflict
	// KindAuth marks a failed credential check.
	KindAuth
	// KindRateLimited marks a request rejected by a limiter.
	KindRateLimited
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unexpected"
	}
}

// Error is a classified domain error with a localized message.
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

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a validation error.
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// NotFound returns a not-found error.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict returns a conflict error.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// Auth returns an authentication error.
func Auth(msg string) *Error { return &Error{Kind: KindAuth, Message: msg} }

// RateLimited returns a rate-limit error.
func RateLimited(msg string) *Error { return &Error{Kind: KindRateLimited, Message: msg} }

// Unexpected wraps err as an unexpected failure.
func Unexpected(msg string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindUnexpected when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// MessageOf returns the user-facing message of err, or fallback when err is
// not an *Error or is unexpected.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindUnexpected && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
