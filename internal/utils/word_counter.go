package utils

import (
	"strings"
	"unicode"
)

// CountWords counts spoken words in a markdown reply. Code blocks, inline
// markers and list bullets do not count.
func CountWords(markdown string) int {
	text := removeCodeBlocks(markdown)

	count := 0
	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		if strings.IndexFunc(word, isWordRune) >= 0 {
			count++
		}
	}
	return count
}

// isWordRune reports whether r can be spoken. Markers like "**", "-" or ">"
// are made only of punctuation and drop out.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func removeCodeBlocks(text string) string {
	for {
		start := strings.Index(text, "```")
		if start == -1 {
			return text
		}
		end := strings.Index(text[start+3:], "```")
		if end == -1 {
			return text
		}
		text = text[:start] + " " + text[start+end+6:]
	}
}
