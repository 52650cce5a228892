package parser

import (
	"fmt"

	"github.com/themuffinator/BrumSchtick/mapfile"
)

// ParseError represents a fatal syntax error during parsing. Parsing is
// all-or-nothing per top-level call: the first ParseError terminates the
// call and no partial result is returned.
type ParseError struct {
	Pos        mapfile.Position
	Message    string
	Underlying error
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d:%d", e.Pos.Filename, e.Pos.Line, e.Pos.Column)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d, column %d", e.Pos.Line, e.Pos.Column)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

func (e *ParseError) GetPosition() mapfile.Position {
	return e.Pos
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// newErrorf creates a parse error at the given position.
func newErrorf(pos mapfile.Position, format string, args ...interface{}) error {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// tokenPosition extracts position information from a token.
func tokenPosition(tok Token, filename string) mapfile.Position {
	return mapfile.Position{
		Filename: filename,
		Offset:   tok.Start,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
