// Package slug derives URL-safe identifiers from titles.
//
// Accented letters are folded to their ASCII base ("Café" becomes "cafe"), everything is lowercased, and each run of
// characters outside [a-z0-9] becomes a single hyphen. Leading and trailing hyphens are trimmed, so a title with no
// alphanumeric content derives the empty slug.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// From converts a title into a slug.
func From(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC), s)
	if err != nil {
		folded = s
	}

	result := nonAlphanumeric.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return s == From(s)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
