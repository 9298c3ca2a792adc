package ledger

import (
	"math/rand"
	"strings"
)

// CodeAlphabet avoids glyphs that read ambiguously on a phone screen or a
// printed ticket: no 0/O, no 1/I/L.
const CodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	codeLength = 6

	// RedemptionPrefix marks canje codes apart from client codes.
	RedemptionPrefix = "CJ-"
)

func randomCode() string {
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(CodeAlphabet[rand.Intn(len(CodeAlphabet))])
	}
	return b.String()
}

// NewClientCode returns a raw 6-character client code (shown as ABC-123).
func NewClientCode() string {
	return randomCode()
}

// NewRedemptionCode returns a CJ-XXXXXX canje code.
func NewRedemptionCode() string {
	return RedemptionPrefix + randomCode()
}

// NormalizeClientCode makes desk input comparable against the stored raw
// code: strips the display hyphen, trims, uppercases.
func NormalizeClientCode(code string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(code)), "-", "")
}

// NormalizeRedemptionCode trims and uppercases; the CJ- prefix is part of
// the stored code, so the hyphen stays.
func NormalizeRedemptionCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FormatClientCode renders a raw code for display (ABC-123).
func FormatClientCode(code string) string {
	if len(code) != codeLength {
		return code
	}
	return code[:3] + "-" + code[3:]
}
