// Package lyrics holds the text heuristics used on lyric blocks: word and
// syllable counts and the helpers that pick a word to rhyme against.
package lyrics

import "strings"

const vowels = "aeiouy"

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// SyllableCount estimates the syllables of a single word by counting vowel
// groups. It is a heuristic and is known to miss on contractions and abbreviations.
func SyllableCount(word string) int {
	w := lettersOnly(strings.ToLower(word))
	if len(w) <= 3 {
		return 1
	}

	count := 0
	previousWasVowel := false
	for i := 0; i < len(w); i++ {
		isVowel := strings.IndexByte(vowels, w[i]) >= 0
		if isVowel && !previousWasVowel {
			count++
		}
		previousWasVowel = isVowel
	}

	if strings.HasSuffix(w, "e") {
		count--
	}
	if strings.HasSuffix(w, "le") && len(w) > 2 {
		count++
	}
	return max(1, count)
}

// CountSyllables sums SyllableCount over every token of text.
func CountSyllables(text string) int {
	total := 0
	for _, word := range strings.Fields(text) {
		total += SyllableCount(word)
	}
	return total
}

func lettersOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'a' && c <= 'z' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
