package httperr

import (
	"errors"
	"net/http"
)

// Error carries an HTTP status alongside the user-facing message.
// Handlers attach one to the request; the error renderer picks the
// status and message off it.
type Error struct {
	Status  int
	Message string
	Err     error // underlying cause, logged but never rendered
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Internal wraps an unexpected failure. The cause stays server-side;
// the rendered message is deliberately generic.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Something went wrong.", Err: err}
}

// From extracts the *Error from err, wrapping anything else as Internal.
func From(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}
	return Internal(err)
}
