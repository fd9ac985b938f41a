package validators

import "strings"

// SanitizeString trims input and caps it at maxLen runes.
func SanitizeString(input string, maxLen int) string {
	return CapRunes(strings.TrimSpace(input), maxLen)
}

// CapRunes cuts input to maxLen runes so multi-byte names are never split
// mid-character. A non-positive maxLen leaves input untouched.
func CapRunes(input string, maxLen int) string {
	if maxLen <= 0 {
		return input
	}
	runes := []rune(input)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return input
}
