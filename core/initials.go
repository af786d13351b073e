package core

import (
	"strings"
	"unicode/utf8"
)

// GetInitials derives a short avatar label from a display name or an email.
//
// Emails yield the first character only; names yield the first letters of
// the first and last words, so a single word yields a single letter.
func GetInitials(nameOrEmail string) string {
	src := strings.TrimSpace(nameOrEmail)
	if src == "" {
		return "?"
	}

	if strings.Contains(src, "@") {
		return strings.ToUpper(firstRune(src))
	}

	parts := strings.Fields(src)
	if len(parts) == 0 {
		return strings.ToUpper(firstRune(src))
	}

	first := firstRune(parts[0])
	last := ""
	if len(parts) > 1 {
		last = firstRune(parts[len(parts)-1])
	}

	return strings.ToUpper(first + last)
}

func firstRune(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}
