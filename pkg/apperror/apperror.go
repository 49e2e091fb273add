// Package apperror classifies domain failures by kind so the transport boundary
// can map them to status codes without knowing individual domain errors.
package apperror

import (
	"errors"
	"net/http"
)

// Kind categorizes a failure.
type Kind int

const (
	Internal Kind = iota
	NotFound
	InvalidState
	Unauthorized
	Validation
	Conflict
	Upstream
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidState:
		return "invalid_state"
	case Unauthorized:
		return "unauthorized"
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case Upstream:
		return "upstream_failure"
	default:
		return "internal"
	}
}

// Error is a classified failure. Err optionally carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New creates a classified error with a user-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap classifies cause under kind with a user-facing message.
// The cause stays reachable through errors.Is and errors.As.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first classified error in err's chain,
// or Internal when none is present.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps the kind of err to an HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case NotFound:
		return http.StatusNotFound
	case InvalidState, Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Validation:
		return http.StatusBadRequest
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
