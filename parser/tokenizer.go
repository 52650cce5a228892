package parser

// Tokenizer implements a zero-copy streaming tokenizer for map text.
//
// The zero-copy approach:
// - Tokens store byte offsets, not string values
// - Lookahead saves and restores scanner state instead of buffering
// - Material names are read straight off the character stream

import (
	"strings"

	"github.com/themuffinator/BrumSchtick/mapfile"
)

// Tokenizer produces map file tokens on demand.
type Tokenizer struct {
	source   []byte // Source buffer
	filename string // Filename for error reporting
	pos      int    // Current byte position
	line     int    // Current line (1-indexed)
	column   int    // Current column (1-indexed)
	skipEol  bool   // When set, line breaks are plain whitespace
}

// NewTokenizer creates a tokenizer for the given source. End-of-line
// tokens are disabled initially; the map grammar is not line oriented.
func NewTokenizer(source []byte, filename string) *Tokenizer {
	return &Tokenizer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
		skipEol:  true,
	}
}

// SetSkipEol toggles end-of-line significance. While skipping, line
// breaks are absorbed as whitespace; otherwise each line break produces
// one Eol token (CRLF and lone CR both count as a single break).
func (t *Tokenizer) SetSkipEol(skip bool) {
	t.skipEol = skip
}

// Position returns the current scanner position.
func (t *Tokenizer) Position() mapfile.Position {
	return mapfile.Position{
		Filename: t.filename,
		Offset:   t.pos,
		Line:     t.line,
		Column:   t.column,
	}
}

// Peek returns the next token without consuming it.
func (t *Tokenizer) Peek() (Token, error) {
	pos, line, column := t.pos, t.line, t.column
	tok, err := t.Next()
	t.pos, t.line, t.column = pos, line, column
	return tok, err
}

// Next scans and returns the next token.
func (t *Tokenizer) Next() (Token, error) {
	for t.pos < len(t.source) {
		start := t.pos
		startLine := t.line
		startColumn := t.column

		switch ch := t.source[t.pos]; ch {
		case '/':
			t.advance()
			if t.peekByte() != '/' {
				return Token{}, t.unexpectedChar(start, startLine, startColumn, ch)
			}
			t.advance()
			if t.peekByte() == '/' && t.peekByteAt(1) == ' ' {
				// Annotated comment: the token payload runs from the
				// marker to the end of the line.
				t.discardToEol()
				return Token{Comment, start, t.pos, startLine, startColumn}, nil
			}
			// A plain line comment is whitespace noise.
			t.discardToEol()
		case ';':
			// One historical dialect writes line comments with a
			// semicolon.
			t.advance()
			t.discardToEol()
		case '{':
			t.advance()
			return Token{OBrace, start, t.pos, startLine, startColumn}, nil
		case '}':
			t.advance()
			return Token{CBrace, start, t.pos, startLine, startColumn}, nil
		case '(':
			t.advance()
			return Token{OParen, start, t.pos, startLine, startColumn}, nil
		case ')':
			t.advance()
			return Token{CParen, start, t.pos, startLine, startColumn}, nil
		case '[':
			t.advance()
			return Token{OBracket, start, t.pos, startLine, startColumn}, nil
		case ']':
			t.advance()
			return Token{CBracket, start, t.pos, startLine, startColumn}, nil
		case '"':
			t.advance()
			contentStart := t.pos
			contentEnd := t.scanQuotedString()
			return Token{String, contentStart, contentEnd, startLine, startColumn}, nil
		case '\r', '\n':
			if t.skipEol {
				t.skipWhitespace()
				continue
			}
			t.consumeLineBreak()
			return Token{Eol, start, t.pos, startLine, startColumn}, nil
		case ' ', '\t':
			t.skipWhitespace()
		default:
			if end, ok := t.scanInteger(); ok {
				return Token{Integer, start, end, startLine, startColumn}, nil
			}
			if end, ok := t.scanDecimal(); ok {
				return Token{Decimal, start, end, startLine, startColumn}, nil
			}
			if end, ok := t.scanWord(); ok {
				return Token{String, start, end, startLine, startColumn}, nil
			}
			return Token{}, t.unexpectedChar(start, startLine, startColumn, ch)
		}
	}

	return Token{Eof, t.pos, t.pos, t.line, t.column}, nil
}

// WasQuoted reports whether a String token came from a quoted string.
// Quoted content spans exclude the quotes, so the byte before the span
// is the opening quote.
func (t *Tokenizer) WasQuoted(tok Token) bool {
	return tok.Start > 0 && t.source[tok.Start-1] == '"'
}

// ReadAnyString reads the next whitespace-delimited string straight off
// the character stream, quoted or not. Material names may contain
// characters that would otherwise lex as structural tokens. The second
// return value reports whether the string was quoted; unescaping quoted
// strings is the caller's business.
func (t *Tokenizer) ReadAnyString() (string, bool, mapfile.Position, error) {
	t.skipWhitespace()
	pos := t.Position()

	if t.pos >= len(t.source) {
		return "", false, pos, newErrorf(pos, "unexpected end of file")
	}

	if t.source[t.pos] == '"' {
		t.advance()
		start := t.pos
		end := t.scanQuotedString()
		return string(t.source[start:end]), true, pos, nil
	}

	start := t.pos
	for t.pos < len(t.source) && !isWhitespace(t.source[t.pos]) {
		t.advance()
	}
	return string(t.source[start:t.pos]), false, pos, nil
}

// Unescape removes backslash escapes for quotes and backslashes from a
// quoted string's content.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}

// scanQuotedString consumes a quoted string's content, assuming the
// opening quote is already consumed, and returns the end offset of the
// content. The string ends at the closing quote, or defensively at a
// line break or '}' when the quote is missing.
func (t *Tokenizer) scanQuotedString() int {
	for t.pos < len(t.source) {
		switch ch := t.source[t.pos]; ch {
		case '"':
			end := t.pos
			t.advance()
			return end
		case '\n', '}':
			return t.pos
		case '\\':
			t.advance()
			if t.pos < len(t.source) && t.source[t.pos] != '\n' && t.source[t.pos] != '}' {
				t.advance()
			}
		default:
			t.advance()
		}
	}
	return t.pos
}

// scanInteger attempts to scan an integer: an optional sign and digits,
// terminated by a numeric delimiter. Restores the scanner on failure.
func (t *Tokenizer) scanInteger() (int, bool) {
	pos, line, column := t.pos, t.line, t.column

	if ch := t.peekByte(); ch == '+' || ch == '-' {
		t.advance()
	}
	digits := 0
	for t.pos < len(t.source) && isDigit(t.source[t.pos]) {
		t.advance()
		digits++
	}
	if digits > 0 && t.atNumberDelim() {
		return t.pos, true
	}

	t.pos, t.line, t.column = pos, line, column
	return 0, false
}

// scanDecimal attempts to scan a decimal: a run of number characters
// terminated by a numeric delimiter. The run is not validated beyond
// the character set; the grammar converts and reports bad values.
func (t *Tokenizer) scanDecimal() (int, bool) {
	pos, line, column := t.pos, t.line, t.column

	run := 0
	for t.pos < len(t.source) && isDecimalChar(t.source[t.pos]) {
		t.advance()
		run++
	}
	if run > 0 && t.atNumberDelim() {
		return t.pos, true
	}

	t.pos, t.line, t.column = pos, line, column
	return 0, false
}

// scanWord consumes a bare word: anything up to the next whitespace.
func (t *Tokenizer) scanWord() (int, bool) {
	start := t.pos
	for t.pos < len(t.source) && !isWhitespace(t.source[t.pos]) {
		t.advance()
	}
	return t.pos, t.pos > start
}

// atNumberDelim reports whether the current character terminates a
// number. The delimiter set is whitespace plus ')', so a number
// immediately followed by a closing parenthesis lexes correctly.
func (t *Tokenizer) atNumberDelim() bool {
	if t.pos >= len(t.source) {
		return true
	}
	ch := t.source[t.pos]
	return isWhitespace(ch) || ch == ')'
}

func (t *Tokenizer) discardToEol() {
	for t.pos < len(t.source) && t.source[t.pos] != '\n' && t.source[t.pos] != '\r' {
		t.pos++
		t.column++
	}
}

// consumeLineBreak consumes one line break, folding CRLF into a single
// break.
func (t *Tokenizer) consumeLineBreak() {
	if t.source[t.pos] == '\r' {
		t.pos++
		if t.pos < len(t.source) && t.source[t.pos] == '\n' {
			t.pos++
		}
	} else {
		t.pos++
	}
	t.line++
	t.column = 1
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.source) {
		switch t.source[t.pos] {
		case ' ', '\t':
			t.pos++
			t.column++
		case '\n', '\r':
			t.consumeLineBreak()
		default:
			return
		}
	}
}

func (t *Tokenizer) advance() {
	if t.pos >= len(t.source) {
		return
	}
	if t.source[t.pos] == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
	t.pos++
}

func (t *Tokenizer) peekByte() byte {
	if t.pos >= len(t.source) {
		return 0
	}
	return t.source[t.pos]
}

func (t *Tokenizer) peekByteAt(n int) byte {
	if t.pos+n >= len(t.source) {
		return 0
	}
	return t.source[t.pos+n]
}

func (t *Tokenizer) unexpectedChar(offset, line, column int, ch byte) error {
	pos := mapfile.Position{Filename: t.filename, Offset: offset, Line: line, Column: column}
	return newErrorf(pos, "unexpected character %q", ch)
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isDecimalChar(ch byte) bool {
	return isDigit(ch) || ch == '+' || ch == '-' || ch == '.' || ch == 'e' || ch == 'E'
}
