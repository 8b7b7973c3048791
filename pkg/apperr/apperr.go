// Package apperr defines the error kinds shared by the domain services.
// Handlers map a kind to an HTTP status and business code; services only
// decide which kind applies.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrAlreadySigned      = errors.New("already signed")
	ErrPermission         = errors.New("permission denied")
	ErrChannelUnavailable = errors.New("channel unavailable")
	ErrGateway            = errors.New("gateway error")
	ErrStorage            = errors.New("storage error")
	ErrInvalidTransition  = errors.New("invalid transition")
)

// Error carries a kind, a user-facing message and optional provider details.
type Error struct {
	Kind    error
	Message string
	// Details is the raw payload returned by an external provider, if any.
	Details any
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Cause }

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }

func NotFound(format string, args ...any) error { return newf(ErrNotFound, format, args...) }

func AlreadySigned(format string, args ...any) error { return newf(ErrAlreadySigned, format, args...) }

func Permission(format string, args ...any) error { return newf(ErrPermission, format, args...) }

func ChannelUnavailable(format string, args ...any) error {
	return newf(ErrChannelUnavailable, format, args...)
}

// Gateway wraps a failed call to an external provider, keeping its payload.
func Gateway(message string, details any, cause error) error {
	return &Error{Kind: ErrGateway, Message: message, Details: details, Cause: cause}
}

func Storage(message string, cause error) error {
	return &Error{Kind: ErrStorage, Message: message, Cause: cause}
}

// TransitionError is returned when a stage status change is not in the transition table.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transição de status inválida: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// Message returns the user-facing message of err, or its Error() text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// DetailsOf returns the provider payload attached to err, if any.
func DetailsOf(err error) any {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}
