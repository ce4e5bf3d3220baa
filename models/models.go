package models

// BlockTypeInfo describes a block type for the structure picker.
type BlockTypeInfo struct {
	Type        BlockType `json:"type"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
}

// SongTemplate is a named song structure preset.
type SongTemplate struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Structure   []BlockType `json:"structure"`
}

// SuggestionKind selects between finishing the current line and writing the next one.
type SuggestionKind string

const (
	SuggestContinueLine SuggestionKind = "continue-line"
	SuggestNextLine     SuggestionKind = "next-line"
)

// LyricSuggestion is a transient AI suggestion for the active block.
type LyricSuggestion struct {
	ID           string         `json:"id"`
	Text         string         `json:"text"`
	Continuation string         `json:"continuation"`
	FullLine     string         `json:"fullLine"`
	Type         SuggestionKind `json:"type"`
}

// RhymeType classifies a rhyme as reported by the rhyme service.
type RhymeType string

const (
	RhymePerfect RhymeType = "perfect"
	RhymeNear    RhymeType = "near"
)

// RhymeSuggestion is one rhyme candidate with a locally computed syllable count.
type RhymeSuggestion struct {
	Word      string    `json:"word"`
	Type      RhymeType `json:"type"`
	Syllables int       `json:"syllables"`
}

// ChordExplanation explains a progression at three theory levels.
type ChordExplanation struct {
	Basic        string `json:"basic"`
	Intermediate string `json:"intermediate"`
	Advanced     string `json:"advanced"`
}

// CreateSongRequest starts a new song.
type CreateSongRequest struct {
	Title  string `json:"title"  binding:"required"`
	Artist string `json:"artist"`
	Genre  string `json:"genre"`
}

// UpdateMetaRequest patches song metadata; nil fields are left untouched.
type UpdateMetaRequest struct {
	Title  *string `json:"title"`
	Artist *string `json:"artist"`
	Genre  *string `json:"genre"`
}

type AddBlockRequest struct {
	Type BlockType `json:"type" binding:"required,blocktype"`
}

// TemplateRequest appends blocks either from a named template or an explicit list.
type TemplateRequest struct {
	TemplateID string      `json:"templateId"`
	Types      []BlockType `json:"types" binding:"omitempty,dive,blocktype"`
}

type UpdateBlockRequest struct {
	Content string `json:"content"`
}

type ReorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// ActiveBlockRequest sets the active block; a null id clears it.
type ActiveBlockRequest struct {
	ID *string `json:"id"`
}

// ChordTarget says where a generated progression is stored.
type ChordTarget string

const (
	TargetAuto   ChordTarget = ""
	TargetGlobal ChordTarget = "global"
	TargetBlocks ChordTarget = "blocks"
	TargetNone   ChordTarget = "none"
)

// GenerateChordsRequest asks for a generated progression. When Genre is empty the
// current song's genre is used. With target "" the progression goes to BlockIDs when
// any are given and to the song otherwise.
type GenerateChordsRequest struct {
	Genre    string      `json:"genre"`
	Key      Key         `json:"key"  binding:"required,musickey"`
	Mode     Mode        `json:"mode" binding:"omitempty,mode"`
	BlockIDs []string    `json:"blockIds"`
	Target   ChordTarget `json:"target" binding:"omitempty,oneof=global blocks none"`
}

// BlockChordsRequest replaces or clears one block's progression.
type BlockChordsRequest struct {
	Progression *ChordProgression `json:"progression"`
}

type ExplainChordsRequest struct {
	Chords []string `json:"chords" binding:"required,min=1"`
	Key    Key      `json:"key"    binding:"required,musickey"`
	Mode   Mode     `json:"mode"   binding:"omitempty,mode"`
	Genre  string   `json:"genre"`
}

type SelectionRequest struct {
	Start int `json:"start" binding:"min=0"`
	End   int `json:"end"   binding:"min=0"`
}

type AutocompleteRequest struct {
	TextBefore string `json:"textBefore"`
}

// TransposeRequest asks to transpose a list of chords from one key to another.
type TransposeRequest struct {
	FromKey Key      `json:"from_key" binding:"required,musickey"`
	ToKey   Key      `json:"to_key"   binding:"required,musickey"`
	Chords  []string `json:"chords"   binding:"required"`
}

// TransposedChord holds the original and transposed name of a single chord.
type TransposedChord struct {
	Original   string `json:"original"`
	Transposed string `json:"transposed"`
}

// TransposeResponse is the result of a batch transpose operation.
type TransposeResponse struct {
	Semitones int               `json:"semitones"`
	Results   []TransposedChord `json:"results"`
}

// MidiRequest renders chords to a MIDI file. When Chords is empty the chords come
// from BlockID's progression, or from the song's global progression.
type MidiRequest struct {
	Chords   []string   `json:"chords"`
	BlockID  string     `json:"blockId"`
	Tempo    int        `json:"tempo"    binding:"omitempty,min=20,max=300"`
	Pattern  string     `json:"pattern"`
	Octave   int        `json:"octave"`
	Beats    int        `json:"beats"    binding:"omitempty,min=1,max=16"`
	Frets    [][]string `json:"frets"`
	OpenMidi []int      `json:"openMidi"`
}
