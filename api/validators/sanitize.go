package validators

import "strings"

// SanitizeString trims input and caps it at maxLen bytes when maxLen is positive.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeSlug normalises user supplied slugs for catalog lookups.
func SanitizeSlug(input string) string {
	return strings.ToLower(SanitizeString(input, 160))
}
