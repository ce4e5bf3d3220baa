package store

import (
	"strconv"

	"songsmith/backend/models"
)

func itoa(n int) string { return strconv.Itoa(n) }

// CreateNewSong replaces the current song with an empty one. An empty title is
// rejected by callers, not here.
func (s *Store) CreateNewSong(title, artist, genre string) {
	s.mutate(ChangeSongCreated, func() bool {
		now := s.now()
		s.song = &models.Song{
			ID:           s.newID(),
			Title:        title,
			Artist:       artist,
			Genre:        genre,
			Blocks:       []models.SongBlock{},
			CreatedAt:    now,
			UpdatedAt:    now,
			History:      []models.HistoryEntry{},
			HistoryIndex: -1,
		}
		s.active = ""
		s.debug("song created", map[string]interface{}{"song_id": s.song.ID})
		return true
	})
}

// LoadSong installs a copy of song as the current song without touching its
// history. A history index outside the stored log is clamped.
func (s *Store) LoadSong(song *models.Song) {
	if song == nil {
		return
	}
	s.mutate(ChangeSongLoaded, func() bool {
		cp := song.Clone()
		if cp.Blocks == nil {
			cp.Blocks = []models.SongBlock{}
		}
		if cp.History == nil {
			cp.History = []models.HistoryEntry{}
		}
		switch {
		case len(cp.History) == 0:
			cp.HistoryIndex = -1
		case cp.HistoryIndex < 0:
			cp.HistoryIndex = 0
		case cp.HistoryIndex >= len(cp.History):
			cp.HistoryIndex = len(cp.History) - 1
		}
		s.song = cp
		s.active = ""
		return true
	})
}

// UpdateMeta changes the given fields. Metadata is outside undo history.
func (s *Store) UpdateMeta(title, artist, genre *string) {
	s.mutate(ChangeMetaUpdated, func() bool {
		if s.song == nil {
			return false
		}
		if title != nil {
			s.song.Title = *title
		}
		if artist != nil {
			s.song.Artist = *artist
		}
		if genre != nil {
			s.song.Genre = *genre
		}
		s.touch()
		return true
	})
}

// AddBlock appends an empty block labelled after the number of blocks of the
// same type, activates it and records history.
func (s *Store) AddBlock(t models.BlockType) {
	s.mutate(ChangeBlocks, func() bool {
		if s.song == nil {
			return false
		}
		b := s.newBlock(t, len(s.song.Blocks), s.countType(t)+1)
		s.song.Blocks = append(s.song.Blocks, b)
		s.active = b.ID
		s.touch()
		s.pushHistory()
		return true
	})
}

// AddBlocksFromTemplate appends one block per type in a single history step.
// Label numbers count from 1 within this call only.
func (s *Store) AddBlocksFromTemplate(types []models.BlockType) {
	s.mutate(ChangeBlocks, func() bool {
		if s.song == nil || len(types) == 0 {
			return false
		}
		counts := make(map[models.BlockType]int)
		base := len(s.song.Blocks)
		for i, t := range types {
			counts[t]++
			b := s.newBlock(t, base+i, counts[t])
			s.song.Blocks = append(s.song.Blocks, b)
			if i == 0 {
				s.active = b.ID
			}
		}
		s.touch()
		s.pushHistory()
		return true
	})
}

// DuplicateBlock appends a copy of block id at the end of the song.
func (s *Store) DuplicateBlock(id string) {
	s.mutate(ChangeBlocks, func() bool {
		if s.song == nil {
			return false
		}
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		src := s.song.Blocks[i]
		dup := src
		dup.ID = s.newID()
		dup.Order = len(s.song.Blocks)
		dup.Label = label(src.Type, s.countType(src.Type)+1)
		dup.ChordProgression = src.ChordProgression.Clone()
		s.song.Blocks = append(s.song.Blocks, dup)
		s.active = dup.ID
		s.touch()
		s.pushHistory()
		return true
	})
}

// UpdateBlock sets a block's content and recomputes its metrics. Every call
// records history, so callers typing keystroke by keystroke should debounce.
func (s *Store) UpdateBlock(id, content string) {
	s.mutate(ChangeBlocks, func() bool {
		if s.song == nil {
			return false
		}
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.song.Blocks[i] = withMetrics(s.song.Blocks[i], content)
		s.touch()
		s.pushHistory()
		return true
	})
}

// DeleteBlock removes a block and renumbers the rest densely from 0.
func (s *Store) DeleteBlock(id string) {
	s.mutate(ChangeBlocks, func() bool {
		if s.song == nil {
			return false
		}
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		blocks := make([]models.SongBlock, 0, len(s.song.Blocks)-1)
		blocks = append(blocks, s.song.Blocks[:i]...)
		blocks = append(blocks, s.song.Blocks[i+1:]...)
		for j := range blocks {
			blocks[j].Order = j
		}
		s.song.Blocks = blocks
		if s.active == id {
			s.active = ""
		}
		s.touch()
		s.pushHistory()
		return true
	})
}

// ReorderBlocks replaces the block list with the blocks named by ids, in that
// order. Unknown ids are skipped and blocks not listed are dropped.
func (s *Store) ReorderBlocks(ids []string) {
	s.mutate(ChangeBlocks, func() bool {
		if s.song == nil {
			return false
		}
		byID := make(map[string]models.SongBlock, len(s.song.Blocks))
		for _, b := range s.song.Blocks {
			byID[b.ID] = b
		}
		blocks := make([]models.SongBlock, 0, len(ids))
		for _, id := range ids {
			b, ok := byID[id]
			if !ok {
				continue
			}
			delete(byID, id)
			b.Order = len(blocks)
			blocks = append(blocks, b)
		}
		if dropped := len(s.song.Blocks) - len(blocks); dropped > 0 {
			s.debug("reorder dropped blocks", map[string]interface{}{"count": dropped})
		}
		s.song.Blocks = blocks
		if s.active != "" && s.indexOf(s.active) < 0 {
			s.active = ""
		}
		s.touch()
		s.pushHistory()
		return true
	})
}

// SetActiveBlock selects a block; "" clears the selection. Not recorded in history.
func (s *Store) SetActiveBlock(id string) {
	s.mutate(ChangeActiveBlock, func() bool {
		if s.active == id {
			return false
		}
		s.active = id
		return true
	})
}

// SetChordProgression replaces the song-wide progression. Undo does not restore it.
func (s *Store) SetChordProgression(p *models.ChordProgression) {
	s.mutate(ChangeChords, func() bool {
		if s.song == nil {
			return false
		}
		s.song.ChordProgression = p.Clone()
		s.touch()
		s.pushHistory()
		return true
	})
}

// SetBlockChordProgression sets or, with nil, clears one block's progression.
func (s *Store) SetBlockChordProgression(blockID string, p *models.ChordProgression) {
	s.mutate(ChangeChords, func() bool {
		if s.song == nil {
			return false
		}
		i := s.indexOf(blockID)
		if i < 0 {
			return false
		}
		s.song.Blocks[i].ChordProgression = p.Clone()
		s.touch()
		s.pushHistory()
		return true
	})
}

// ApplyChordProgressionToBlocks gives every listed block its own copy of p.
// Unknown ids are ignored; history records one step.
func (s *Store) ApplyChordProgressionToBlocks(blockIDs []string, p *models.ChordProgression) {
	s.mutate(ChangeChords, func() bool {
		if s.song == nil {
			return false
		}
		want := make(map[string]bool, len(blockIDs))
		for _, id := range blockIDs {
			want[id] = true
		}
		for i := range s.song.Blocks {
			if want[s.song.Blocks[i].ID] {
				s.song.Blocks[i].ChordProgression = p.Clone()
			}
		}
		s.touch()
		s.pushHistory()
		return true
	})
}

// Undo restores the block list from the previous history entry.
func (s *Store) Undo() {
	s.mutate(ChangeHistoryMoved, func() bool {
		if s.song == nil || s.song.HistoryIndex <= 0 {
			return false
		}
		s.restore(s.song.HistoryIndex - 1)
		return true
	})
}

// Redo restores the block list from the next history entry.
func (s *Store) Redo() {
	s.mutate(ChangeHistoryMoved, func() bool {
		if s.song == nil || s.song.HistoryIndex >= len(s.song.History)-1 {
			return false
		}
		s.restore(s.song.HistoryIndex + 1)
		return true
	})
}

func (s *Store) restore(idx int) {
	s.song.HistoryIndex = idx
	s.song.Blocks = models.CloneBlocks(s.song.History[idx].Blocks)
	if s.song.Blocks == nil {
		s.song.Blocks = []models.SongBlock{}
	}
	if s.active != "" && s.indexOf(s.active) < 0 {
		s.active = ""
	}
}
