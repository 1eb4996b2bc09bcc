package utils

import (
	"strings"
	"unicode"
)

// CountWords counts the number of words in a plain-text string.
// Word count is a derived cache on documents; it is recomputed from
// content on every save and never treated as authoritative.
func CountWords(text string) int {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r)
	})

	count := 0
	for _, word := range words {
		if len(strings.TrimSpace(word)) > 0 {
			count++
		}
	}

	return count
}

// CountContentWords counts the words in a document's rich content blob
// by stripping markup first.
func CountContentWords(content string) int {
	return CountWords(PlainText(content))
}
