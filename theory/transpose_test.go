package theory

import (
	"testing"

	"songsmith/backend/models"
)

func keyOf(s string) models.Key { return models.Key(s) }

func TestRootIndex(t *testing.T) {
	cases := []struct {
		chord string
		want  int
	}{
		{"C", 0}, {"G", 7}, {"B", 11},
		{"C#m7", 1}, {"F#maj7", 6},
		{"Db", 1}, {"Bbm", 10},
		{"", -1}, {"H7", -1},
	}
	for _, tc := range cases {
		if got := RootIndex(tc.chord); got != tc.want {
			t.Errorf("RootIndex(%q) = %d, want %d", tc.chord, got, tc.want)
		}
	}
}

func TestTransposeChord(t *testing.T) {
	cases := []struct {
		chord     string
		semitones int
		want      string
	}{
		{"C", 7, "G"},
		{"G", 5, "C"},
		{"B", 1, "C"},
		{"Am", 3, "Cm"},
		{"F#m7", 6, "Cm7"},
		{"Bb", 2, "C"},
		{"C", -1, "B"},
		{"N.C.", 4, "N.C."},
	}
	for _, tc := range cases {
		if got := TransposeChord(tc.chord, tc.semitones); got != tc.want {
			t.Errorf("TransposeChord(%q, %d) = %q, want %q", tc.chord, tc.semitones, got, tc.want)
		}
	}
}

func TestSemitones(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
	}{
		{"C", "G", 7},
		{"G", "C", 5},
		{"C", "C", 0},
		{"B", "C", 1},
		{"Eb", "D", 11},
		{"X", "C", 0},
	}
	for _, tc := range cases {
		if got := Semitones(keyOf(tc.from), keyOf(tc.to)); got != tc.want {
			t.Errorf("Semitones(%q, %q) = %d, want %d", tc.from, tc.to, got, tc.want)
		}
	}
}
