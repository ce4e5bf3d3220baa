package theory

import (
	"math/rand/v2"
	"strings"
	"sync"

	"songsmith/backend/models"
)

// DefaultBucket names the fallback pattern list used for unmatched genres.
const DefaultBucket = "default"

type genreBucket struct {
	name     string
	patterns [][]int
}

// genreBuckets is matched in order against a lowercased genre, so "Jazz Fusion"
// lands in jazz and "Folk Rock" in rock.
var genreBuckets = []genreBucket{
	{"pop", [][]int{{1, 5, 6, 4}, {1, 6, 4, 5}, {6, 4, 1, 5}, {1, 4, 6, 5}}},
	{"rock", [][]int{{1, 4, 5, 4}, {1, 5, 4, 4}, {1, 4, 1, 5}, {6, 4, 5, 1}}},
	{"jazz", [][]int{{2, 5, 1}, {1, 6, 2, 5}, {3, 6, 2, 5}, {1, 4, 3, 6, 2, 5}}},
	{"blues", [][]int{{1, 1, 1, 1, 4, 4, 1, 1, 5, 4, 1, 5}, {1, 4, 1, 5}, {1, 4, 5, 4}}},
	{"country", [][]int{{1, 4, 5, 1}, {1, 1, 4, 5}, {1, 5, 4, 1}}},
	{"folk", [][]int{{1, 4, 1, 5}, {1, 5, 6, 4}, {6, 4, 1, 5}}},
	{"r&b", [][]int{{2, 5, 1, 6}, {1, 6, 2, 5}, {4, 3, 2, 1}}},
	{"soul", [][]int{{1, 4, 2, 5}, {2, 5, 1, 6}, {1, 6, 4, 5}}},
	{"hip-hop", [][]int{{6, 4, 1, 5}, {1, 6, 4, 5}, {6, 5, 4, 5}}},
	{"gospel", [][]int{{1, 4, 1, 5}, {4, 5, 3, 6}, {1, 3, 4, 5}}},
	{"edm", [][]int{{6, 4, 1, 5}, {1, 5, 6, 4}, {4, 5, 6, 6}}},
}

var defaultPatterns = [][]int{{1, 4, 5, 1}, {1, 5, 6, 4}, {1, 6, 4, 5}}

// Bucket returns the name and candidate degree patterns for genre.
func Bucket(genre string) (string, [][]int) {
	g := strings.ToLower(genre)
	for _, b := range genreBuckets {
		if strings.Contains(g, b.name) {
			return b.name, b.patterns
		}
	}
	return DefaultBucket, defaultPatterns
}

// Generator picks progressions at random. The zero value uses the global source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

func (g *Generator) intN(n int) int {
	if g == nil || g.rng == nil {
		return rand.IntN(n)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

// Generate picks a pattern from the genre's bucket and renders it in key and mode.
func (g *Generator) Generate(genre string, key models.Key, mode models.Mode) (*models.ChordProgression, error) {
	_, patterns := Bucket(genre)
	return BuildProgression(patterns[g.intN(len(patterns))], genre, key, mode)
}

var defaultGenerator Generator

// GenerateChordProgression renders a randomly chosen genre pattern.
func GenerateChordProgression(genre string, key models.Key, mode models.Mode) (*models.ChordProgression, error) {
	return defaultGenerator.Generate(genre, key, mode)
}

// BuildProgression renders a fixed degree pattern into a complete progression.
func BuildProgression(degrees []int, genre string, key models.Key, mode models.Mode) (*models.ChordProgression, error) {
	mode, err := normalizeMode(mode)
	if err != nil {
		return nil, err
	}
	jazz := strings.Contains(strings.ToLower(genre), "jazz")

	chords := make([]models.Chord, 0, len(degrees))
	for _, d := range degrees {
		c, err := DiatonicChord(key, d, mode, jazz)
		if err != nil {
			return nil, err
		}
		chords = append(chords, c)
	}
	chords = AddChordVariations(chords, genre)

	romans := make([]string, len(chords))
	nashville := make([]string, len(chords))
	for i, c := range chords {
		romans[i] = c.Roman
		nashville[i] = c.Nashville
	}

	return &models.ChordProgression{
		Chords:           chords,
		Key:              key,
		Mode:             mode,
		Genre:            genre,
		RomanNumerals:    strings.Join(romans, " - "),
		NashvilleNumbers: strings.Join(nashville, " - "),
	}, nil
}
