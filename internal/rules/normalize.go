package rules

import (
	"strings"
	"unicode"
)

// dashGlyphs are the dash variants that show up in hand-typed rule data.
// NormalizeLabel folds them all into a plain ASCII hyphen.
var dashGlyphs = map[rune]bool{
	'－': true, // full-width hyphen-minus
	'―': true, // horizontal bar
	'—': true, // em dash
	'–': true, // en dash
}

// Normalize canonicalizes a string for matching: it lowercases and removes
// every whitespace rune, including the full-width space (U+3000). The result
// is what query and tag comparisons operate on. Normalize is total and
// idempotent; the empty string maps to itself.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// NormalizeLabel canonicalizes a user-facing label without touching its
// casing: whitespace is stripped and all dash glyph variants become "-".
// Used to deduplicate category labels that differ only typographically.
func NormalizeLabel(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		if dashGlyphs[r] {
			return '-'
		}
		return r
	}, s)
}
