package utils

import "strings"

// CleanText collapses runs of whitespace into single spaces and trims the ends
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens s to at most n runes for log lines
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
