// Package text normalizes source chunks into typable practice text.
package text

import (
	"strings"
	"unicode"
)

// Normalize returns s with non-ASCII and non-whitespace control characters
// removed, every whitespace run collapsed to one space, and leading and
// trailing whitespace trimmed. Normalize is idempotent.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r > unicode.MaxASCII:
			return -1
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// Typable reports whether r can be typed as a single character key.
func Typable(r rune) bool {
	return r <= unicode.MaxASCII && !unicode.IsControl(r)
}
