package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// to single spaces. Control characters are dropped.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		case unicode.IsControl(r):
			// skip
		default:
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}

// NormalizeTitle cleans a booking title for storage.
func NormalizeTitle(title string) string {
	return TrimAndNormalize(title)
}

// NormalizeNotes cleans free-text notes, preserving nothing beyond plain
// normalized text.
func NormalizeNotes(notes string) string {
	return TrimAndNormalize(notes)
}

// NormalizeHandle lowercases and trims a user handle. Handles are unique
// case-insensitively, so the lowercase form is the canonical one.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}
