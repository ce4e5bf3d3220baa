package theory

import "songsmith/backend/models"

// RootIndex returns the semitone index (0–11) of the root note of a chord name,
// or -1 if the root cannot be identified.
func RootIndex(chord string) int {
	if len(chord) == 0 {
		return -1
	}
	root := chord[:1]
	if len(chord) > 1 && (chord[1] == '#' || chord[1] == 'b') {
		root = chord[:2]
	}
	v, err := NoteValue(models.Key(root))
	if err != nil {
		return -1
	}
	return v
}

// Suffix returns everything after the root note letter (and optional accidental).
func Suffix(chord string) string {
	if len(chord) == 0 {
		return ""
	}
	if len(chord) > 1 && (chord[1] == '#' || chord[1] == 'b') {
		return chord[2:]
	}
	return chord[1:]
}

// TransposeChord shifts a chord name by semitones. The new root is sharp-spelled;
// unrecognised chords come back unchanged.
func TransposeChord(chord string, semitones int) string {
	idx := RootIndex(chord)
	if idx == -1 {
		return chord
	}
	newIdx := ((idx+semitones)%12 + 12) % 12
	return chromatic[newIdx] + Suffix(chord)
}

// Semitones returns the upward distance from one key to another, 0 when either is unknown.
func Semitones(fromKey, toKey models.Key) int {
	from, err := NoteValue(fromKey)
	if err != nil {
		return 0
	}
	to, err := NoteValue(toKey)
	if err != nil {
		return 0
	}
	return ((to - from) + 12) % 12
}

// Transpose converts a list of chord names from one key to another.
func Transpose(req models.TransposeRequest) models.TransposeResponse {
	semitones := Semitones(req.FromKey, req.ToKey)
	results := make([]models.TransposedChord, len(req.Chords))
	for i, ch := range req.Chords {
		results[i] = models.TransposedChord{
			Original:   ch,
			Transposed: TransposeChord(ch, semitones),
		}
	}
	return models.TransposeResponse{Semitones: semitones, Results: results}
}
