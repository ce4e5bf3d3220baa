package models

import (
	"strings"
	"time"
)

// BlockType is the structural role of a song block.
type BlockType string

const (
	BlockVerse     BlockType = "verse"
	BlockChorus    BlockType = "chorus"
	BlockBridge    BlockType = "bridge"
	BlockPreChorus BlockType = "pre-chorus"
	BlockRefrain   BlockType = "refrain"
	BlockIntro     BlockType = "intro"
	BlockOutro     BlockType = "outro"
	BlockHook      BlockType = "hook"
	BlockInterlude BlockType = "interlude"
)

// BlockTypes lists every block type in display order.
var BlockTypes = []BlockType{
	BlockVerse, BlockChorus, BlockBridge, BlockPreChorus, BlockRefrain,
	BlockIntro, BlockOutro, BlockHook, BlockInterlude,
}

func (t BlockType) Valid() bool {
	for _, v := range BlockTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Capitalized upper-cases the first letter only ("pre-chorus" -> "Pre-chorus").
// Auto-generated block labels are built from it.
func (t BlockType) Capitalized() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// SongBlock is one labelled section of lyrics.
type SongBlock struct {
	ID               string            `json:"id"`
	Type             BlockType         `json:"type"`
	Content          string            `json:"content"`
	Order            int               `json:"order"`
	Label            string            `json:"label,omitempty"`
	WordCount        int               `json:"wordCount"`
	SyllableCount    int               `json:"syllableCount"`
	ChordProgression *ChordProgression `json:"chordProgression,omitempty"`
}

// HistoryEntry is a snapshot of the block list. Timestamp is Unix milliseconds.
type HistoryEntry struct {
	Blocks    []SongBlock `json:"blocks"`
	Timestamp int64       `json:"timestamp"`
}

// Song is the document edited by the store and persisted by the library.
type Song struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Artist           string            `json:"artist"`
	Genre            string            `json:"genre"`
	Blocks           []SongBlock       `json:"blocks"`
	ChordProgression *ChordProgression `json:"chordProgression,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	History          []HistoryEntry    `json:"history"`
	HistoryIndex     int               `json:"historyIndex"`
}

// Block returns the block with the given id.
func (s *Song) Block(id string) (SongBlock, bool) {
	for _, b := range s.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return SongBlock{}, false
}

// CloneBlocks deep-copies a block list. nil stays nil.
func CloneBlocks(blocks []SongBlock) []SongBlock {
	if blocks == nil {
		return nil
	}
	out := make([]SongBlock, len(blocks))
	for i, b := range blocks {
		b.ChordProgression = b.ChordProgression.Clone()
		out[i] = b
	}
	return out
}

// Clone returns a deep copy of the song including its history.
func (s *Song) Clone() *Song {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Blocks = CloneBlocks(s.Blocks)
	cp.ChordProgression = s.ChordProgression.Clone()
	if s.History != nil {
		cp.History = make([]HistoryEntry, len(s.History))
		for i, h := range s.History {
			cp.History[i] = HistoryEntry{Blocks: CloneBlocks(h.Blocks), Timestamp: h.Timestamp}
		}
	}
	return &cp
}
