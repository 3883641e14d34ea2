// Package common defines the sentinel errors and the typed error taxonomy
// shared across regauth components. Repositories return sentinels matched
// with errors.Is; services attach a Kind and a human-readable detail that
// the transport layer can surface safely.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
)

// Kind is a stable machine-readable error category.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindForbidden  Kind = "forbidden"
	KindDependency Kind = "dependency"
	KindInternal   Kind = "internal"
)

// Error couples a Kind with a detail string that is safe to show to callers.
// Err optionally wraps the underlying cause for logs; it is never exposed.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFoundError builds a not_found error with the given detail.
func NotFoundError(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// ValidationError builds a validation error with the given detail.
func ValidationError(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// ForbiddenError builds a forbidden error with the given detail.
func ForbiddenError(detail string) *Error {
	return &Error{Kind: KindForbidden, Detail: detail}
}

// DependencyError builds a dependency error wrapping the failing call.
func DependencyError(detail string, err error) *Error {
	return &Error{Kind: KindDependency, Detail: detail, Err: err}
}

// ErrKind extracts the Kind from err, defaulting to KindInternal for plain
// errors so that unclassified failures are never leaked verbatim.
func ErrKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrDetail returns the caller-safe detail for err. Unclassified errors
// collapse to a generic message.
func ErrDetail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "internal server error"
}
