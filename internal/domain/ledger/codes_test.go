package ledger

import (
	"strings"
	"testing"
)

func TestNewClientCodeShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := NewClientCode()
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		for _, ch := range code {
			if !strings.ContainsRune(CodeAlphabet, ch) {
				t.Fatalf("code %q contains %q, not in alphabet", code, ch)
			}
		}
	}
}

func TestNewRedemptionCodeShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := NewRedemptionCode()
		if !strings.HasPrefix(code, "CJ-") {
			t.Fatalf("code %q missing CJ- prefix", code)
		}
		if len(code) != 9 {
			t.Fatalf("code %q has length %d, want 9", code, len(code))
		}
		for _, ch := range code[3:] {
			if !strings.ContainsRune(CodeAlphabet, ch) {
				t.Fatalf("code %q contains %q, not in alphabet", code, ch)
			}
		}
	}
}

func TestAlphabetExcludesAmbiguousGlyphs(t *testing.T) {
	for _, ch := range "0O1IL" {
		if strings.ContainsRune(CodeAlphabet, ch) {
			t.Errorf("alphabet contains ambiguous glyph %q", ch)
		}
	}
}

func TestNormalizeClientCode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"ABC234", "ABC234"},
		{"abc234", "ABC234"},
		{"ABC-234", "ABC234"},
		{"  abc-234  ", "ABC234"},
	}
	for _, tc := range cases {
		if got := NormalizeClientCode(tc.in); got != tc.want {
			t.Errorf("NormalizeClientCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRedemptionCodeKeepsPrefix(t *testing.T) {
	if got := NormalizeRedemptionCode("  cj-abc234 "); got != "CJ-ABC234" {
		t.Errorf("got %q, want CJ-ABC234", got)
	}
}

func TestFormatClientCode(t *testing.T) {
	if got := FormatClientCode("ABC234"); got != "ABC-234" {
		t.Errorf("got %q, want ABC-234", got)
	}
	// Unexpected lengths pass through untouched.
	if got := FormatClientCode("AB"); got != "AB" {
		t.Errorf("got %q, want AB", got)
	}
}
