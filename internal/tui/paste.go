package tui

import (
	"regexp"
	"strings"
)

var ansiEscapePattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// SanitizePaste strips terminal escape sequences and control characters
// from pasted text, normalizes line endings, and trims trailing whitespace.
// Tabs and newlines are kept.
func SanitizePaste(content string) string {
	content = ansiEscapePattern.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	content = strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\t':
			return r
		case r == '\r':
			return '\n'
		case r < 32, r == 127:
			return -1
		}
		return r
	}, content)

	return strings.TrimRight(content, " \t\n")
}

var newlinePattern = regexp.MustCompile(`\n+`)

// collapseNewlines joins lines with single spaces for one-line inputs.
func collapseNewlines(content string) string {
	return newlinePattern.ReplaceAllString(content, " ")
}
