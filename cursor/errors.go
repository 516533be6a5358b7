package cursor

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminated        = errors.New("unterminated construct")
)

// Error is a fatal scan error located in the input text
type Error struct {
	Kind    error
	Message string
	Line    int
	Column  int
	Offset  int
	Context string // input around the failure, for diagnostics
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Line, e.Column)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Fail creates an error located at the current position
func (c *Cursor) Fail(kind error, format string, args ...any) *Error {
	return c.FailAt(c.pos, kind, format, args...)
}

// FailAt creates an error located at pos, which must have been obtained from this cursor
func (c *Cursor) FailAt(pos Position, kind error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    pos.Line,
		Column:  pos.Column,
		Offset:  pos.Offset,
		Context: c.Debug(),
	}
}
