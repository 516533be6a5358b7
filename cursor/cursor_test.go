package cursor

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCursorNext(t *testing.T) {
	c := New("ab\nc")

	assert.Equal(t, 'a', c.Next())
	assert.Equal(t, Position{Offset: 1, Line: 1, Column: 1}, c.Position())
	assert.Equal(t, 'b', c.Next())
	assert.Equal(t, '\n', c.Next())
	assert.Equal(t, Position{Offset: 3, Line: 2, Column: 0}, c.Position())
	assert.Equal(t, 'c', c.Next())
	assert.Equal(t, Position{Offset: 4, Line: 2, Column: 1}, c.Position())
	assert.True(t, c.EOF())
}

func TestCursorNextPastEnd(t *testing.T) {
	c := New("x")
	c.Next()

	before := c.Position()
	assert.Equal(t, EOF, c.Next())
	assert.Equal(t, EOF, c.Next())
	assert.Equal(t, before, c.Position())
}

func TestCursorPeek(t *testing.T) {
	c := New("xyz")

	assert.Equal(t, 'x', c.Peek())
	assert.Equal(t, 'x', c.Peek())
	assert.Equal(t, 'y', c.PeekNext(1))
	assert.Equal(t, 'z', c.PeekNext(2))
	assert.Equal(t, EOF, c.PeekNext(3))
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 0}, c.Position())
}

func TestCursorEmptyInput(t *testing.T) {
	c := New("")

	assert.True(t, c.EOF())
	assert.Equal(t, EOF, c.Peek())
	assert.Equal(t, EOF, c.Next())
}

func TestCursorMultibyte(t *testing.T) {
	c := New("é/")

	assert.Equal(t, '/', c.PeekNext(1))
	assert.Equal(t, 'é', c.Next())
	assert.Equal(t, Position{Offset: 2, Line: 1, Column: 1}, c.Position())
	assert.Equal(t, '/', c.Next())
}

func TestCursorDebug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		advance  int
		expected string
	}{
		{name: "start", input: "abcdefghij", advance: 0, expected: "abcde"},
		{name: "middle", input: "abcdefghijklmn", advance: 7, expected: "cdefghijkl"},
		{name: "end", input: "abcdef", advance: 6, expected: "bcdef"},
		{name: "empty", input: "", advance: 0, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.input)
			for i := 0; i < tt.advance; i++ {
				c.Next()
			}
			assert.Equal(t, tt.expected, c.Debug())
		})
	}
}

func TestCursorFail(t *testing.T) {
	c := New("ab\ncd")
	for i := 0; i < 4; i++ {
		c.Next()
	}

	err := c.Fail(ErrUnexpectedCharacter, "expected %q", 'x')

	assert.Equal(t, "expected 'x' (2:1)", err.Error())
	assert.Equal(t, 2, err.Line)
	assert.Equal(t, 1, err.Column)
	assert.Equal(t, 4, err.Offset)
	assert.True(t, errors.Is(err, ErrUnexpectedCharacter))
	assert.False(t, errors.Is(err, ErrUnterminated))
}

func TestCursorFailAt(t *testing.T) {
	c := New("abc")
	mark := c.Position()
	c.Next()
	c.Next()

	err := c.FailAt(mark, ErrUnterminated, "boom")

	assert.Equal(t, 1, err.Line)
	assert.Equal(t, 0, err.Column)
	assert.True(t, errors.Is(err, ErrUnterminated))
}
