package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims whitespace, drops control characters, and truncates
// to maxLen runes. Used on free-text query parameters such as the catalog
// search term.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxLen > 0 {
		if runes := []rune(cleaned); len(runes) > maxLen {
			return string(runes[:maxLen])
		}
	}
	return cleaned
}
