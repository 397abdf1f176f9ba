// Package apperrors defines the tagged error kinds surfaced to API callers.
package apperrors

import (
	"fmt"
	"net/http"
)

// Kind classifies an error so the HTTP layer can pick a status code.
type Kind int

const (
	Validation Kind = iota
	InvalidCredentials
	Unauthenticated
	InvalidToken
	Forbidden
	NotFound
	Conflict
	Internal
)

// Error carries a kind plus the message shown to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case Validation, Conflict, InvalidCredentials:
		return http.StatusBadRequest
	case Unauthenticated, InvalidToken:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// New builds an Error with the given kind and caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Internal error that keeps the underlying cause for logs
// while exposing only message to the caller.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Internal, Message: message, Err: err}
}
