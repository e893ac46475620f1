package types

import (
	"errors"
	"fmt"
)

// Error kinds returned by the service request lifecycle. Match them with errors.Is.
var (
	ErrValidation        = errors.New("validation_error")
	ErrNotFound          = errors.New("not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrInvalidState      = errors.New("invalid_state")
	ErrConflict          = errors.New("conflict")
)

// RequestError carries a client facing message together with its kind.
type RequestError struct {
	Kind    error
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Kind
}

// Code is the stable identifier transports expose next to the message.
func (e *RequestError) Code() string {
	if e.Kind == nil {
		return "unknown"
	}
	return e.Kind.Error()
}

func NewError(kind error, format string, args ...any) error {
	return &RequestError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func Validation(format string, args ...any) error {
	return NewError(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return NewError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return NewError(ErrForbidden, format, args...)
}

func InvalidTransition(format string, args ...any) error {
	return NewError(ErrInvalidTransition, format, args...)
}

func InvalidState(format string, args ...any) error {
	return NewError(ErrInvalidState, format, args...)
}

func Conflict(format string, args ...any) error {
	return NewError(ErrConflict, format, args...)
}

// AsRequestError unwraps err to a *RequestError when one is in the chain.
func AsRequestError(err error) (*RequestError, bool) {
	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		return requestErr, true
	}
	return nil, false
}
