package workspace

import (
	"strings"
	"unicode/utf8"
)

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// FirstChars returns the first n characters of text. Cuts happen on rune
// boundaries so a multi-byte sequence is never split.
func FirstChars(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}

// Lines splits text into lines, accepting \n, \r\n and lone \r endings.
// A trailing newline does not produce a final empty line.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// LastLines returns the last n lines of text joined with \n.
// Lines are kept whole; blank lines count.
func LastLines(text string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := Lines(text)
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
