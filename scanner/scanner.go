package scanner

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shibukawa/structscan/cursor"
)

const (
	keywordPub    = "pub"
	keywordStruct = "struct"
)

type predicate func(ch rune) bool

// Scanner reads attribute-decorated struct declarations from a Cursor.
// A Scanner is single use and must not be shared between goroutines.
type Scanner struct {
	input *cursor.Cursor
}

// New creates a new Scanner over input
func New(input string) *Scanner {
	return &Scanner{input: cursor.New(input)}
}

// Parse scans the whole input and returns the declarations in source order.
// The returned error is a *cursor.Error located at the first syntax violation.
func Parse(input string) (Document, error) {
	return New(input).Read()
}

// Read reads declarations until the end of the input
func (s *Scanner) Read() (Document, error) {
	doc := Document{}

	for {
		s.skipWhitespace()
		if s.input.EOF() {
			return doc, nil
		}

		attribute, err := s.readAttribute()
		if err != nil {
			return nil, err
		}

		s.skipWhitespace()

		declaration, err := s.readRecord()
		if err != nil {
			return nil, err
		}

		s.skipWhitespace()

		doc = append(doc, AnnotatedDeclaration{
			Attribute:   attribute,
			Declaration: declaration,
		})
	}
}

// Character classes

func isWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x85, 0xA0:
		return true
	}

	return ch > 0xFF && unicode.Is(unicode.White_Space, ch)
}

func isComma(ch rune) bool {
	return ch == ','
}

func isName(ch rune) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9')
}

func isSlash(ch rune) bool {
	return ch == '/'
}

// Primitives

// readWhile consumes characters while pred holds and returns them
func (s *Scanner) readWhile(pred predicate) string {
	var builder strings.Builder

	for !s.input.EOF() && pred(s.input.Peek()) {
		builder.WriteRune(s.input.Next())
	}

	return builder.String()
}

func (s *Scanner) skipWhitespace() {
	s.readWhile(isWhitespace)
}

func (s *Scanner) skipCommas() {
	s.readWhile(isComma)
}

func (s *Scanner) skipWhitespaceOrCommas() {
	s.readWhile(func(ch rune) bool {
		return isWhitespace(ch) || isComma(ch)
	})
}

func (s *Scanner) readRestOfLine() string {
	return s.readWhile(func(ch rune) bool {
		return ch != '\n'
	})
}

// expect consumes one character and fails unless it is want
func (s *Scanner) expect(want rune) error {
	got := s.input.Next()
	if got == want {
		return nil
	}

	if got == cursor.EOF {
		return s.input.Fail(cursor.ErrUnterminated, "expected %q but reached end of input", want)
	}

	return s.input.Fail(cursor.ErrUnexpectedCharacter, "expected %q but found %q", want, got)
}

// expectKeyword reads a word and fails at the first character that differs from keyword
func (s *Scanner) expectKeyword(keyword string) error {
	start := s.input.Position()

	word := s.readWhile(isName)
	if word == keyword {
		return nil
	}

	// Words are ASCII, so byte index == column offset
	i := 0
	for i < len(word) && i < len(keyword) && word[i] == keyword[i] {
		i++
	}

	if i == len(word) {
		// The offending character is the one right after the word
		ch := s.input.Next()
		if ch == cursor.EOF {
			return s.input.Fail(cursor.ErrUnterminated, "expected %q but reached end of input", keyword)
		}

		return s.input.Fail(cursor.ErrUnexpectedCharacter, "expected %q but found %s", keyword, describe(word, ch))
	}

	pos := cursor.Position{
		Offset: start.Offset + i + 1,
		Line:   start.Line,
		Column: start.Column + i + 1,
	}

	return s.input.FailAt(pos, cursor.ErrUnexpectedCharacter, "expected %q but found %q", keyword, word)
}

// readName reads a non-empty identifier
func (s *Scanner) readName(what string) (string, error) {
	name := s.readWhile(isName)
	if name != "" {
		return name, nil
	}

	ch := s.input.Next()
	if ch == cursor.EOF {
		return "", s.input.Fail(cursor.ErrUnterminated, "expected %s but reached end of input", what)
	}

	return "", s.input.Fail(cursor.ErrUnexpectedCharacter, "expected %s but found %q", what, ch)
}

func describe(word string, next rune) string {
	if word == "" {
		return strconv.QuoteRune(next)
	}

	return strconv.Quote(word + string(next))
}

// Grammar

// readString reads a double quoted literal. A quote preceded by a backslash
// is content; no other escape sequence is recognized.
func (s *Scanner) readString() (string, error) {
	s.skipWhitespace()

	if err := s.expect('"'); err != nil {
		return "", err
	}

	escaped := false
	raw := s.readWhile(func(ch rune) bool {
		if ch == '"' && !escaped {
			return false
		}
		escaped = ch == '\\'
		return true
	})

	if s.input.EOF() {
		return "", s.input.Fail(cursor.ErrUnterminated, "unterminated string literal")
	}

	if err := s.expect('"'); err != nil {
		return "", err
	}

	// Every quote in raw is preceded by the backslash that escaped it
	return strings.ReplaceAll(raw, `\"`, `"`), nil
}

func (s *Scanner) readParam() (AttributeParam, error) {
	s.skipWhitespace()

	name, err := s.readName("parameter name")
	if err != nil {
		return AttributeParam{}, err
	}

	s.skipWhitespaceOrCommas()

	if err := s.expect('='); err != nil {
		return AttributeParam{}, err
	}

	s.skipWhitespace()

	value, err := s.readString()
	if err != nil {
		return AttributeParam{}, err
	}

	return AttributeParam{Name: name, Value: value}, nil
}

func (s *Scanner) readAttribute() (Attribute, error) {
	s.skipWhitespace()

	if err := s.expect('#'); err != nil {
		return Attribute{}, err
	}

	s.skipWhitespace()

	if err := s.expect('['); err != nil {
		return Attribute{}, err
	}

	s.skipWhitespace()

	name, err := s.readName("attribute name")
	if err != nil {
		return Attribute{}, err
	}

	s.skipWhitespace()

	if err := s.expect('('); err != nil {
		return Attribute{}, err
	}

	s.skipWhitespace()

	params := []AttributeParam{}
	for s.input.Peek() != ')' {
		if s.input.EOF() {
			return Attribute{}, s.input.Fail(cursor.ErrUnterminated, "unterminated attribute %q", name)
		}

		param, err := s.readParam()
		if err != nil {
			return Attribute{}, err
		}

		params = append(params, param)
		s.skipWhitespaceOrCommas()
	}

	if err := s.expect(')'); err != nil {
		return Attribute{}, err
	}

	s.skipWhitespace()

	if err := s.expect(']'); err != nil {
		return Attribute{}, err
	}

	s.skipWhitespace()

	return Attribute{Name: name, Params: params}, nil
}

func (s *Scanner) atDocMarker() bool {
	return s.input.Peek() == '/' && s.input.PeekNext(1) == '/' && s.input.PeekNext(2) == '/'
}

// readDocComment joins consecutive doc comment lines with single spaces
func (s *Scanner) readDocComment() string {
	var lines []string

	s.skipWhitespace()

	for s.atDocMarker() {
		s.readWhile(isSlash)

		line := strings.TrimFunc(s.readRestOfLine(), isWhitespace)
		if line != "" {
			lines = append(lines, line)
		}

		s.skipWhitespace()
	}

	return strings.Join(lines, " ")
}

func (s *Scanner) readField() (Field, error) {
	s.skipWhitespace()

	comment := s.readDocComment()

	s.skipWhitespace()

	if err := s.expectKeyword(keywordPub); err != nil {
		return Field{}, err
	}

	s.skipWhitespace()

	name, err := s.readName("field name")
	if err != nil {
		return Field{}, err
	}

	s.skipWhitespace()

	if err := s.expect(':'); err != nil {
		return Field{}, err
	}

	s.skipWhitespace()

	fieldType, err := s.readName("field type")
	if err != nil {
		return Field{}, err
	}

	s.skipWhitespaceOrCommas()

	return Field{Name: name, Type: fieldType, DocComment: comment}, nil
}

func (s *Scanner) readRecord() (Declaration, error) {
	s.skipWhitespace()

	if err := s.expectKeyword(keywordPub); err != nil {
		return Declaration{}, err
	}

	s.skipWhitespace()

	if err := s.expectKeyword(keywordStruct); err != nil {
		return Declaration{}, err
	}

	s.skipWhitespace()

	name, err := s.readName("struct name")
	if err != nil {
		return Declaration{}, err
	}

	s.skipWhitespace()

	if err := s.expect('{'); err != nil {
		return Declaration{}, err
	}

	s.skipWhitespace()

	fields := []Field{}
	for s.input.Peek() != '}' {
		if s.input.EOF() {
			return Declaration{}, s.input.Fail(cursor.ErrUnterminated, "unterminated struct %q", name)
		}

		field, err := s.readField()
		if err != nil {
			return Declaration{}, err
		}

		fields = append(fields, field)
		s.skipWhitespaceOrCommas()
	}

	if err := s.expect('}'); err != nil {
		return Declaration{}, err
	}

	s.skipWhitespace()

	return Declaration{Name: name, Fields: fields}, nil
}
