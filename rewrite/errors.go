package rewrite

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType classifies rewrite failures.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeTransient
	ErrorTypeRequest
	ErrorTypeResponse
	ErrorTypeRateLimit
	ErrorTypeAuthentication
)

// Error is a typed failure from the rewriting collaborator.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.TypeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.TypeString(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) TypeString() string {
	switch e.Type {
	case ErrorTypeTransient:
		return "TransientError"
	case ErrorTypeRequest:
		return "RequestError"
	case ErrorTypeResponse:
		return "ResponseError"
	case ErrorTypeRateLimit:
		return "RateLimitError"
	case ErrorTypeAuthentication:
		return "AuthenticationError"
	default:
		return "UnknownError"
	}
}

// NewError creates a typed rewrite error.
func NewError(errType ErrorType, message string, err error) *Error {
	return &Error{Type: errType, Message: message, Err: err}
}

// IsTransient reports whether a failed call may succeed on retry. Timeouts,
// rate limiting, and server-side failures are transient; malformed requests
// and authentication failures are not.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Type == ErrorTypeTransient || rerr.Type == ErrorTypeRateLimit
	}
	return false
}
