package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// disallowed matches characters outside letters, digits, underscore,
// whitespace, and basic punctuation. Everything else (control characters,
// box-drawing glyphs, emoji, stray OCR artifacts) is stripped.
var disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s.,:;!?()\-\n]`)

// whitespace matches any run of whitespace, including newlines.
var whitespace = regexp.MustCompile(`\s+`)

// hyphenBreak matches a hyphen followed by whitespace, the typical artifact
// of words broken across lines in OCR and PDF output.
var hyphenBreak = regexp.MustCompile(`-\s+`)

// Clean normalizes extracted text: Unicode NFC normalization, removal of
// non-semantic characters, whitespace collapsing, and hyphenation repair.
//
// Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = hyphenBreak.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
