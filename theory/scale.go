// Package theory derives scales and diatonic chords and builds genre-flavoured
// chord progressions from scale-degree patterns.
package theory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"songsmith/backend/models"
)

var (
	ErrUnknownKey    = errors.New("unknown key")
	ErrUnknownMode   = errors.New("unknown mode")
	ErrInvalidDegree = errors.New("scale degree must be between 1 and 7")
)

var (
	majorIntervals    = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorIntervals    = [7]int{0, 2, 3, 5, 7, 8, 10}
	majorRomanNumbers = [7]string{"I", "ii", "iii", "IV", "V", "vi", "vii°"}
	minorRomanNumbers = [7]string{"i", "ii°", "III", "iv", "v", "VI", "VII"}
)

// chromatic spells every pitch class with sharps.
var chromatic = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var noteValues = map[models.Key]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3, "E": 4, "F": 5,
	"F#": 6, "Gb": 6, "G": 7, "G#": 8, "Ab": 8, "A": 9, "A#": 10, "Bb": 10, "B": 11,
}

// NoteValue returns the chromatic value 0-11 of key.
func NoteValue(key models.Key) (int, error) {
	v, ok := noteValues[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return v, nil
}

func normalizeMode(mode models.Mode) (models.Mode, error) {
	switch mode {
	case "":
		return models.ModeMajor, nil
	case models.ModeMajor, models.ModeMinor:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// ScaleNotes returns the seven notes of the key's major or natural minor scale.
// Every note, the tonic included, comes back sharp-spelled: ScaleNotes("Bb", major)
// starts with "A#".
func ScaleNotes(key models.Key, mode models.Mode) ([]models.Key, error) {
	root, err := NoteValue(key)
	if err != nil {
		return nil, err
	}
	mode, err = normalizeMode(mode)
	if err != nil {
		return nil, err
	}

	intervals := majorIntervals
	if mode == models.ModeMinor {
		intervals = minorIntervals
	}
	notes := make([]models.Key, len(intervals))
	for i, iv := range intervals {
		notes[i] = models.Key(chromatic[(root+iv)%12])
	}
	return notes, nil
}

// DiatonicChord builds the chord on a 1-based scale degree. With jazz extensions
// the fifth degree becomes a dominant seventh; in major, degrees 1 and 4 gain maj7
// and degrees 2, 3 and 6 gain a minor seventh.
func DiatonicChord(key models.Key, degree int, mode models.Mode, jazz bool) (models.Chord, error) {
	if degree < 1 || degree > 7 {
		return models.Chord{}, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}
	mode, err := normalizeMode(mode)
	if err != nil {
		return models.Chord{}, err
	}
	notes, err := ScaleNotes(key, mode)
	if err != nil {
		return models.Chord{}, err
	}
	root := notes[degree-1]

	var quality models.ChordQuality
	var extensions []string
	var romans [7]string

	if mode == models.ModeMajor {
		romans = majorRomanNumbers
		switch degree {
		case 1, 4, 5:
			quality = models.QualityMajor
		case 2, 3, 6:
			quality = models.QualityMinor
		default:
			quality = models.QualityDiminished
		}
		if jazz {
			switch degree {
			case 5:
				extensions = []string{"7"}
				quality = models.QualityDominant
			case 1, 4:
				extensions = []string{"maj7"}
			case 2, 3, 6:
				extensions = []string{"7"}
			}
		}
	} else {
		romans = minorRomanNumbers
		switch degree {
		case 3, 6, 7:
			quality = models.QualityMajor
		case 1, 4, 5:
			quality = models.QualityMinor
		default:
			quality = models.QualityDiminished
		}
		if jazz && degree == 5 {
			extensions = []string{"7"}
			quality = models.QualityDominant
		}
	}

	return models.Chord{
		Root:       root,
		Quality:    quality,
		Extensions: extensions,
		Display:    string(root) + qualitySymbol(quality) + strings.Join(extensions, ""),
		Roman:      romans[degree-1],
		Nashville:  strconv.Itoa(degree),
	}, nil
}

func qualitySymbol(q models.ChordQuality) string {
	switch q {
	case models.QualityMinor:
		return "m"
	case models.QualityDiminished:
		return "dim"
	}
	return ""
}

// AddChordVariations applies genre colour to a chord list and returns a new
// slice. Jazz adds a 9 to dominant chords and rewrites their symbol to root+"9";
// blues turns plain major chords into dominant sevenths. Jazz wins when a
// genre names both. The input is never modified.
func AddChordVariations(chords []models.Chord, genre string) []models.Chord {
	g := strings.ToLower(genre)
	out := make([]models.Chord, len(chords))
	for i, c := range chords {
		out[i] = c
		out[i].Extensions = append([]string(nil), c.Extensions...)
		if len(c.Extensions) == 0 {
			out[i].Extensions = nil
		}
	}

	switch {
	case strings.Contains(g, "jazz"):
		for i, c := range out {
			if c.Quality == models.QualityDominant && !c.HasExtension("9") {
				out[i].Extensions = append(c.Extensions, "9")
				out[i].Display = string(c.Root) + "9"
			}
		}
	case strings.Contains(g, "blues"):
		for i, c := range out {
			if c.Quality == models.QualityMajor && !c.HasExtension("7") {
				out[i].Extensions = []string{"7"}
				out[i].Display = string(c.Root) + "7"
				out[i].Quality = models.QualityDominant
			}
		}
	}
	return out
}
