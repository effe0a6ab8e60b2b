// Package apperr defines the error taxonomy shared by the engines and the
// HTTP layer. Callers match with errors.Is, either against a specific error
// or against one of the kind sentinels.
package apperr

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
)

// Error is a specific failure belonging to one kind.
type Error struct {
	Kind error
	Msg  string
}

// New returns an error that matches itself and kind under errors.Is.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Kind reports which taxonomy sentinel err belongs to, or nil.
func Kind(err error) error {
	for _, k := range []error{ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict, ErrInvalidInput} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Invalid is shorthand for an InvalidInput error with a message.
func Invalid(msg string) *Error { return New(ErrInvalidInput, msg) }

// NotFound is shorthand for a NotFound error with a message.
func NotFound(msg string) *Error { return New(ErrNotFound, msg) }

// Forbidden is shorthand for a Forbidden error with a message.
func Forbidden(msg string) *Error { return New(ErrForbidden, msg) }
