// backend/src/security/validation/sanitizers.go
package validation

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// CleanFreeText prepares untrusted free-text cells (setup, emotion, notes,
// possibly scraped out of a broker HTML report) for storage: strips all HTML,
// drops unprintable characters and collapses surrounding whitespace.
func CleanFreeText(s string) string {
	s = strictHTMLPolicy.Sanitize(s)
	s = StripUnprintable(s)
	return strings.TrimSpace(s)
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1 // Drop the rune
	}, s)
}
