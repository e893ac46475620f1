package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanUTF8 strips invalid UTF8 sequences and NUL bytes, which PostgreSQL text
// columns reject. The boolean reports whether anything was removed.
func CleanUTF8(input string) (string, bool) {
	needsCleaning := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	if !needsCleaning {
		return input, false
	}

	cleaned := strings.ToValidUTF8(input, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")

	return cleaned, true
}

// OptionalText cleans and trims free text, returning nil when nothing is left.
func OptionalText(input *string) *string {
	if input == nil {
		return nil
	}

	cleaned, _ := CleanUTF8(*input)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	return &cleaned
}
