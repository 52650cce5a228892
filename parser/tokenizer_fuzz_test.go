package parser

import (
	"testing"
)

func FuzzTokenizer(f *testing.F) {
	// Seed corpus with various token types
	seeds := []string{
		// Structure
		"{", "}", "(", ")", "[", "]",

		// Numbers
		"0", "123", "-64", "+128", "1.5", "-0.25", ".5", "1e6", "1.5e-3",

		// Strings
		"\"classname\"",
		"\"with spaces\"",
		"\"with \\\"quotes\\\"\"",
		"\"unterminated",
		"bare_word",
		"textures/base_wall/c_met5_2",

		// Comments
		"// comment",
		"/// annotated comment",
		"///nospace",
		"; semicolon comment",

		// Whitespace
		" ", "\t", "\n", "\r\n", "\r", "   ",

		// Map snippets
		"( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) wall 0 0 0 1 1",
		"{\n\"classname\" \"worldspawn\"\n}",
		"[ 1 0 0 32 ]",
		"patchDef2",

		// Edge cases
		"",
		".",
		"-",
		"/",
		"\"abc}",
		"128abc",
		"1.5)",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// CRITICAL: the tokenizer must never panic on any input
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Tokenizer panicked on input %q: %v", data, r)
			}
		}()

		tokenizer := NewTokenizer(data, "fuzz-test")

		for i := 0; i < len(data)+1; i++ {
			tok, err := tokenizer.Next()

			// Stray characters are an acceptable error
			if err != nil {
				return
			}

			// Validate invariants
			if tok.Line < 1 {
				t.Errorf("Token %d has invalid line %d", i, tok.Line)
			}
			if tok.Column < 1 {
				t.Errorf("Token %d has invalid column %d", i, tok.Column)
			}
			if tok.Start > tok.End {
				t.Errorf("Token %d: Start=%d > End=%d", i, tok.Start, tok.End)
			}
			if tok.End > len(data) {
				t.Errorf("Token %d: End=%d > data length %d", i, tok.End, len(data))
			}

			if tok.Kind == Eof {
				return
			}
		}

		t.Errorf("Tokenizer produced more tokens than input bytes on %q", data)
	})
}

func FuzzHotspotRects(f *testing.F) {
	seeds := []string{
		"foo { rectangles { 0 0 32 32 tileu weight=2 } }",
		"foo { 0 0 16 16 }",
		"// comment only",
		"# hash comment",
		"{ } { }",
		"bare",
		"0 0 64 64",
		"weight=abc 0 0 1 1",
		"w 2 0 0 8 8 tilev",
		"",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed), "default")
	}

	f.Fuzz(func(t *testing.T, data []byte, defaultTexture string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("ParseHotspotRects panicked on input %q: %v", data, r)
			}
		}()

		rects := ParseHotspotRects(data, defaultTexture)
		if rects == nil {
			t.Error("ParseHotspotRects returned nil")
			return
		}

		for _, texture := range rects.Textures() {
			for _, rect := range rects.Rects(texture) {
				if rect.Size.X <= 0 || rect.Size.Y <= 0 {
					t.Errorf("rect with non-positive size %v survived for texture %q", rect.Size, texture)
				}
				if rect.Weight <= 0 {
					t.Errorf("rect with non-positive weight %v survived for texture %q", rect.Weight, texture)
				}
			}
		}
	})
}
