// Package slug turns product titles into URL path segments.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name. Accents are
// folded to their base letter before anything outside [a-z0-9] collapses
// into a single hyphen.
//
// Examples:
//   - "Termo Soberanía Acero" → "termo-soberania-acero"
//   - "Combo Mate + Bombilla" → "combo-mate-bombilla"
//   - "Ñandú   Pampeano!" → "nandu-pampeano"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(fold(name)))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return s != "" && Generate(s) == s
}

// fold strips combining marks after canonical decomposition, so "í" becomes
// "i" and "ñ" becomes "n". A transform chain keeps state, so each call
// builds its own.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
