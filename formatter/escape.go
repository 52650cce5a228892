package formatter

import (
	"math"
	"strconv"
	"strings"
)

// escapeString escapes special characters for a quoted map string.
// It escapes double quotes and backslashes.
func escapeString(s string) string {
	needsEscape := false
	for _, c := range s {
		if c == '"' || c == '\\' {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 10)
	for _, c := range s {
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		default:
			buf.WriteRune(c)
		}
	}
	return buf.String()
}

// quoteMaterial writes a material name, quoting only when the bare form
// would not survive tokenization: empty names and names containing
// whitespace or quotes.
func quoteMaterial(name string) string {
	if name != "" && !strings.ContainsAny(name, " \t\"\r\n") {
		return name
	}
	return `"` + escapeString(name) + `"`
}

// writeNumber appends the shortest plain decimal representation of f.
// Integral values drop the fraction entirely.
func writeNumber(buf *strings.Builder, f float64) {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		buf.WriteString(strconv.FormatInt(int64(f), 10))
		return
	}
	buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
}
