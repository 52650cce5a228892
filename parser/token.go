package parser

// Kind represents the type of token scanned from map text. The values
// are bit flags so grammar code can expect any of several kinds with a
// single mask (integers are also valid decimals, for example).
type Kind uint16

const (
	Integer Kind = 1 << iota // 123, -123
	Decimal                  // 1.5, -0.25, 1e-3
	String                   // bare word or "quoted string"
	Comment                  // annotated comment: /// ...
	Eol                      // end of line, only when EOL tracking is on
	OParen                   // (
	CParen                   // )
	OBrace                   // {
	CBrace                   // }
	OBracket                 // [
	CBracket                 // ]
	Eof                      // end of input

	// Number matches either numeric kind.
	Number = Integer | Decimal
)

var kindNames = map[Kind]string{
	Integer:  "integer",
	Decimal:  "decimal",
	String:   "string",
	Comment:  "comment",
	Eol:      "end of line",
	OParen:   "'('",
	CParen:   "')'",
	OBrace:   "'{'",
	CBrace:   "'}'",
	OBracket: "'['",
	CBracket: "']'",
	Eof:      "end of file",
}

// String names a single kind, or an alternation like "integer or
// decimal" for a mask of several kinds.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	var parts []byte
	for bit := Kind(1); bit != 0 && bit <= k; bit <<= 1 {
		if k&bit == 0 {
			continue
		}
		if len(parts) > 0 {
			parts = append(parts, " or "...)
		}
		parts = append(parts, kindNames[bit]...)
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return string(parts)
}

// Token represents a lexical token with zero-copy semantics. Instead of
// storing the token text as a string (which would allocate), it stores
// byte offsets into the original source buffer. For quoted strings the
// span covers the content without the quotes.
type Token struct {
	Kind   Kind
	Start  int // Byte offset into source buffer
	End    int // End offset (exclusive)
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// String materializes the token text from the source buffer. The
// allocation only happens when the text is actually needed, not during
// scanning.
func (t Token) String(source []byte) string {
	if t.Start >= len(source) || t.End > len(source) || t.Start > t.End {
		return ""
	}
	return string(source[t.Start:t.End])
}

// Bytes returns a zero-copy view of the token text.
func (t Token) Bytes(source []byte) []byte {
	if t.Start >= len(source) || t.End > len(source) || t.Start > t.End {
		return nil
	}
	return source[t.Start:t.End]
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}
