package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// sentenceBoundary matches sentence-terminal punctuation and any whitespace after it.
var sentenceBoundary = regexp.MustCompile(`[.!?]\s*`)

// SplitSentences splits text on '.', '!' or '?' and returns the trimmed,
// non-empty fragments in order. It is a character pattern match with no
// language awareness.
func SplitSentences(text string) []string {
	if text == "" {
		return nil
	}
	parts := sentenceBoundary.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanText trims s and collapses internal whitespace runs to one space.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Segment returns the cleaned sentences of text that are at least minLen
// characters long.
func Segment(text string, minLen int) []string {
	parts := SplitSentences(text)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		clean := CleanText(p)
		if clean == "" || utf8.RuneCountInString(clean) < minLen {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// WordCount counts whitespace-delimited words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
