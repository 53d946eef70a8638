package service

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeEmail lowercases and trims the provided email.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// joinName builds a display name from first and last name, trimmed and
// single-space-joined.
func joinName(first, last string) string {
	return sanitizeString(first + " " + last)
}

// equalName reports whether two free-text name fields refer to the same
// label, ignoring case and surrounding whitespace.
func equalName(a, b string) bool {
	a = sanitizeString(a)
	b = sanitizeString(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
