package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.NotZero(t, styles)
	assert.NotZero(t, styles.output)
	assert.NotZero(t, styles.Output())
}

func TestStylesKeepText(t *testing.T) {
	// Styling may add escape sequences around the text but never
	// changes the text itself.
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	tests := []struct {
		name  string
		style func(string) string
		text  string
	}{
		{"Success", styles.Success, "1 entity, 4 brushes"},
		{"Error", styles.Error, "expected integer"},
		{"FilePath", styles.FilePath, "maps/e1m1.map"},
		{"Material", styles.Material, "base_wall/c_met5_2"},
		{"Location", styles.Location, "e1m1.map:42:7"},
		{"Keyword", styles.Keyword, "worldspawn"},
		{"Dim", styles.Dim, "skipped"},
		{"Warning", styles.Warning, "Invalid patch height, assuming 1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.True(t, strings.Contains(test.style(test.text), test.text))
		})
	}
}
