package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeKey lowercases and trims s and collapses inner whitespace, it is
// the form used to compare header cells and clue texts.
func NormalizeKey(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ContainsAny reports whether any of the needles is a substring of s.
func ContainsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

var lengthHintRegex = regexp.MustCompile(`\s*\(\d+\)\s*$`)

// StripLengthHint removes a trailing answer length annotation such as
// "(19)" and trims the result.
func StripLengthHint(clue string) string {
	clue = strings.TrimSpace(clue)
	return strings.TrimSpace(lengthHintRegex.ReplaceAllString(clue, ""))
}

// LetterCount counts the letters in an answer, ignoring spaces and
// punctuation of multi-word answers.
func LetterCount(answer string) int {
	count := 0
	for _, c := range answer {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			count++
		}
	}
	return count
}
