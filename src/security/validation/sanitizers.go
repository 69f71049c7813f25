package validation

import (
	"strings"
	"unicode"
)

// SanitizeName trims surrounding whitespace and strips unprintable
// characters from a user-supplied instrument name.
func SanitizeName(s string) string {
	return strings.TrimSpace(StripUnprintable(s))
}

// StripUnprintable removes non-printable characters, allowing common
// whitespace like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
