package lyrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastWord(t *testing.T) {
	assert.Equal(t, "night", LastWord("into the night"))
	assert.Equal(t, "", LastWord("   "))
}

func TestLastSentence(t *testing.T) {
	assert.Equal(t, "and then", LastSentence("It rained. We ran! and then"))
	assert.Equal(t, "All done.", LastSentence("All done."))
}

func TestExtractRhymableWord(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"I walked along the road\nunder the Stars!", "stars"},
		{"first line fire\n\n   \n", "fire"},
		{"we go to it", ""},
		{"the sky is so\n", "sky"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractRhymableWord(tc.text), "ExtractRhymableWord(%q)", tc.text)
	}
}

func TestSelectedWord(t *testing.T) {
	text := "Dancing under Moonlight, tonight"
	assert.Equal(t, "", SelectedWord(text, 3, 3))
	assert.Equal(t, "moonlight", SelectedWord(text, 14, 24))
	assert.Equal(t, "moonlight", SelectedWord(text, 24, 14))
	assert.Equal(t, "", SelectedWord(text, 0, 2))
	assert.Equal(t, "tonight", SelectedWord(text, 0, 1000))
}
