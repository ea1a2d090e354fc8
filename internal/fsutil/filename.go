// Package fsutil provides filename helpers for saving converted audio.
package fsutil

import "strings"

// SanitizeFilename replaces characters that are hostile to at least one
// supported filesystem with underscores and trims surrounding whitespace.
func SanitizeFilename(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			return r
		}
	}, name)
	return strings.TrimSpace(mapped)
}

// SuggestedFilename builds the default save name for a converted title:
// the sanitized title with trailing dots and spaces stripped, plus ".mp3".
func SuggestedFilename(title string) string {
	base := strings.TrimRight(SanitizeFilename(title), ". ")
	if base == "" {
		base = "audio"
	}
	return base + ".mp3"
}
