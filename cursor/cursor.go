package cursor

import (
	"unicode/utf8"
)

// EOF is returned by Next, Peek and PeekNext past the end of the input
const EOF rune = -1

// debugWindow is the number of characters Debug shows on each side of the cursor
const debugWindow = 5

// Position represents a position in the input text
type Position struct {
	Offset int // byte offset
	Line   int // 1-based
	Column int // characters consumed on the current line
}

// Cursor reads the input text one character at a time and tracks the position
type Cursor struct {
	input string
	pos   Position
}

// New creates a new Cursor at the beginning of input
func New(input string) *Cursor {
	return &Cursor{
		input: input,
		pos:   Position{Offset: 0, Line: 1, Column: 0},
	}
}

// Next returns the current character and advances the cursor.
// Past the end of the input it returns EOF and the position does not move.
func (c *Cursor) Next() rune {
	if c.pos.Offset >= len(c.input) {
		return EOF
	}

	ch, size := utf8.DecodeRuneInString(c.input[c.pos.Offset:])
	c.pos.Offset += size

	if ch == '\n' {
		c.pos.Line++
		c.pos.Column = 0
	} else {
		c.pos.Column++
	}

	return ch
}

// Peek returns the current character without advancing
func (c *Cursor) Peek() rune {
	return c.PeekNext(0)
}

// PeekNext returns the character k positions ahead of the current one
func (c *Cursor) PeekNext(k int) rune {
	offset := c.pos.Offset
	for {
		if offset >= len(c.input) {
			return EOF
		}

		ch, size := utf8.DecodeRuneInString(c.input[offset:])
		if k == 0 {
			return ch
		}

		offset += size
		k--
	}
}

// EOF reports whether the whole input has been consumed
func (c *Cursor) EOF() bool {
	return c.Peek() == EOF
}

// Position returns the current position
func (c *Cursor) Position() Position {
	return c.pos
}

// Debug returns the text around the current position
func (c *Cursor) Debug() string {
	start := c.pos.Offset
	for i := 0; i < debugWindow && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(c.input[:start])
		start -= size
	}

	end := c.pos.Offset
	for i := 0; i < debugWindow && end < len(c.input); i++ {
		_, size := utf8.DecodeRuneInString(c.input[end:])
		end += size
	}

	return c.input[start:end]
}
