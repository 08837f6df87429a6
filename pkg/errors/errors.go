package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a ledger failure.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindNotFound
	KindForbidden
	KindInvalidState
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal"
	}
}

// Error is the application error type. Resource and ID identify the
// entity involved so callers can render an actionable message.
type Error struct {
	Kind     Kind   `json:"kind"`
	Resource string `json:"resource,omitempty"`
	ID       int64  `json:"id,omitempty"`
	Message  string `json:"message"`
	Err      error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Error constructors
func InvalidArgument(message string) *Error {
	return &Error{
		Kind:    KindInvalidArgument,
		Message: message,
	}
}

func NotFound(resource string, id int64) *Error {
	return &Error{
		Kind:     KindNotFound,
		Resource: resource,
		ID:       id,
		Message:  fmt.Sprintf("%s %d not found", resource, id),
	}
}

func Forbidden(resource string, id int64, message string) *Error {
	return &Error{
		Kind:     KindForbidden,
		Resource: resource,
		ID:       id,
		Message:  message,
	}
}

func InvalidState(resource string, id int64, message string) *Error {
	return &Error{
		Kind:     KindInvalidState,
		Resource: resource,
		ID:       id,
		Message:  message,
	}
}

func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: "internal error",
		Err:     err,
	}
}

// KindOf reports the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
