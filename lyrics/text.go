package lyrics

import (
	"regexp"
	"strings"
)

var (
	sentenceBreak = regexp.MustCompile(`[.!?]+`)
	nonWordChars  = regexp.MustCompile(`[^\w]`)
)

// LastWord returns the final whitespace-separated token of text.
func LastWord(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

// LastSentence returns the text after the last sentence terminator, or text
// itself when that tail is blank.
func LastSentence(text string) string {
	parts := sentenceBreak.Split(text, -1)
	if last := strings.TrimSpace(parts[len(parts)-1]); last != "" {
		return last
	}
	return text
}

// LastLine returns the last non-blank line of text, or "" when there is none.
func LastLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

// ExtractRhymableWord scans the last non-blank line right to left and returns
// the first word longer than two characters, lowercased and stripped of
// punctuation.
func ExtractRhymableWord(text string) string {
	words := strings.Fields(LastLine(text))
	for i := len(words) - 1; i >= 0; i-- {
		if w := nonWordChars.ReplaceAllString(words[i], ""); len(w) > 2 {
			return strings.ToLower(w)
		}
	}
	return ""
}

// SelectedWord returns the last word inside the [start, end) selection of text,
// measured in runes. Selections that are empty or end on a short word give "".
func SelectedWord(text string, start, end int) string {
	if start == end {
		return ""
	}
	runes := []rune(text)
	start, end = clamp(start, len(runes)), clamp(end, len(runes))
	if start > end {
		start, end = end, start
	}

	word := nonWordChars.ReplaceAllString(LastWord(string(runes[start:end])), "")
	if len(word) > 2 {
		return strings.ToLower(word)
	}
	return ""
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
