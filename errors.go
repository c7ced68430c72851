package celadon

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmatchedBracket is fatal: bracket structure is never repaired.
	ErrUnmatchedBracket = errors.New("unmatched bracket")

	ErrUnknownBinding      = errors.New("unknown binding")
	ErrIndirectionOverflow = errors.New("indirection limit exceeded")
	ErrArityMismatch       = errors.New("arity mismatch")
	ErrReservedName        = errors.New("reserved name")
	ErrNotCallable         = errors.New("not callable")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrMalformedForm       = errors.New("malformed form")
	ErrUnknownMethod       = errors.New("unknown method")
)

// PositionError is an evaluation error tied to the source position of the
// token that caused it.
type PositionError struct {
	Line, Col int
	Err       error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Line, e.Col, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

// tokenError attaches the position of t to err, unless err already carries
// one or t has none.
func tokenError(t *Token, err error) error {
	if t == nil || t.Line == 0 {
		return err
	}
	var pe *PositionError
	if errors.As(err, &pe) {
		return err
	}
	return &PositionError{Line: t.Line, Col: t.Col, Err: err}
}
