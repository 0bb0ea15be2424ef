package errs

import "errors"

// Kind sentinels. Every domain error unwraps to exactly one of them so the
// transport layer can map failures without knowing individual messages.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrComputation = errors.New("computation failed")
)

// Error is a human-readable failure tagged with a kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func Validation(msg string) *Error { return &Error{kind: ErrValidation, msg: msg} }

func NotFound(msg string) *Error { return &Error{kind: ErrNotFound, msg: msg} }

func Conflict(msg string) *Error { return &Error{kind: ErrConflict, msg: msg} }

// Computation wraps an engine failure, keeping its text visible to operators.
func Computation(err error) error {
	if err == nil {
		return nil
	}
	return &computationError{cause: err}
}

type computationError struct {
	cause error
}

func (e *computationError) Error() string { return e.cause.Error() }

func (e *computationError) Unwrap() []error { return []error{ErrComputation, e.cause} }

// Message returns the text a caller should show for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
