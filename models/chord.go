package models

// Key is a pitch spelling usable as a song key or chord root.
type Key string

// Keys lists the 17 accepted pitch spellings.
var Keys = []Key{
	"C", "C#", "Db", "D", "D#", "Eb", "E", "F", "F#",
	"Gb", "G", "G#", "Ab", "A", "A#", "Bb", "B",
}

// Valid reports whether k is one of Keys.
func (k Key) Valid() bool {
	for _, v := range Keys {
		if v == k {
			return true
		}
	}
	return false
}

// Mode is the scale mode of a progression.
type Mode string

const (
	ModeMajor Mode = "major"
	ModeMinor Mode = "minor"
)

func (m Mode) Valid() bool {
	return m == ModeMajor || m == ModeMinor
}

// ChordQuality is the harmonic quality of a chord.
type ChordQuality string

const (
	QualityMajor      ChordQuality = "major"
	QualityMinor      ChordQuality = "minor"
	QualityDiminished ChordQuality = "diminished"
	QualityAugmented  ChordQuality = "augmented"
	QualityDominant   ChordQuality = "dominant"
	QualitySuspended  ChordQuality = "suspended"
)

// Chord is one chord of a progression, derived from key, degree, mode and genre.
type Chord struct {
	Root       Key          `json:"root"`
	Quality    ChordQuality `json:"quality"`
	Extensions []string     `json:"extensions,omitempty"`
	Display    string       `json:"display"`
	Roman      string       `json:"roman,omitempty"`
	Nashville  string       `json:"nashville,omitempty"`
}

// HasExtension reports whether ext is among the chord's extensions.
func (c Chord) HasExtension(ext string) bool {
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ChordProgression is immutable once built; replace it, never edit it.
type ChordProgression struct {
	Chords           []Chord `json:"chords"`
	Key              Key     `json:"key"`
	Mode             Mode    `json:"mode"`
	Genre            string  `json:"genre"`
	RomanNumerals    string  `json:"romanNumerals"`
	NashvilleNumbers string  `json:"nashvilleNumbers"`
}

// Symbols returns the display string of every chord in order.
func (p *ChordProgression) Symbols() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Chords))
	for i, c := range p.Chords {
		out[i] = c.Display
	}
	return out
}

// Clone returns a deep copy of p. A nil progression clones to nil.
func (p *ChordProgression) Clone() *ChordProgression {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Chords != nil {
		cp.Chords = make([]Chord, len(p.Chords))
		for i, c := range p.Chords {
			if c.Extensions != nil {
				c.Extensions = append([]string(nil), c.Extensions...)
			}
			cp.Chords[i] = c
		}
	}
	return &cp
}
