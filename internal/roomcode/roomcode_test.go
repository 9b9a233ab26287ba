package roomcode

import (
	"strings"
	"testing"
)

func TestGenerateAlphabetAndLength(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := Generate()
		if len(code) != Length {
			t.Fatalf("expected length %d, got %q", Length, code)
		}
		for _, ch := range code {
			if !strings.ContainsRune(Alphabet, ch) {
				t.Fatalf("code %q contains %q outside the alphabet", code, ch)
			}
		}
	}
}

func TestGenerateExcludesAmbiguousGlyphs(t *testing.T) {
	for _, banned := range "0O1I" {
		if strings.ContainsRune(Alphabet, banned) {
			t.Errorf("alphabet must not contain %q", banned)
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	code := Generate()
	lowered := strings.ToLower(code)
	if got := Normalize(lowered); got != code {
		t.Errorf("Normalize(%q) = %q, want %q", lowered, got, code)
	}
	if got := Normalize("  " + lowered + " "); got != code {
		t.Errorf("Normalize with whitespace = %q, want %q", got, code)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"ABCDE", true},
		{"A2345", true},
		{"abcde", false}, // not normalized
		{"ABC", false},
		{"ABCDEF", false},
		{"ABC0E", false}, // ambiguous glyph
		{"ABC1E", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.code); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
