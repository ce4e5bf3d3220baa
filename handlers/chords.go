package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"songsmith/backend/midi"
	"songsmith/backend/models"
)

// GenerateChords builds a progression and stores it according to the target:
// "global" on the song, "blocks" on BlockIDs, "none" nowhere. With no target
// it goes to BlockIDs when given, else to the song when one is open.
func (h *Handler) GenerateChords(c *gin.Context) {
	var req models.GenerateChordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	song := h.store.Snapshot()
	genre := req.Genre
	if genre == "" && song != nil {
		genre = song.Genre
	}

	target := req.Target
	if target == models.TargetAuto {
		switch {
		case len(req.BlockIDs) > 0:
			target = models.TargetBlocks
		case song != nil:
			target = models.TargetGlobal
		default:
			target = models.TargetNone
		}
	}
	if target == models.TargetBlocks && len(req.BlockIDs) == 0 {
		badRequest(c, errors.New("blockIds is required for target blocks"))
		return
	}
	if target != models.TargetNone && h.currentSong(c) == nil {
		return
	}

	p, err := h.chords.Generate(genre, req.Key, req.Mode)
	if err != nil {
		badRequest(c, err)
		return
	}

	switch target {
	case models.TargetGlobal:
		h.store.SetChordProgression(p)
	case models.TargetBlocks:
		h.store.ApplyChordProgressionToBlocks(req.BlockIDs, p)
	}

	c.JSON(http.StatusOK, gin.H{
		"progression": p,
		"target":      target,
		"state":       h.state(),
	})
}

// SetBlockChords replaces or, with a null progression, clears one block's chords.
func (h *Handler) SetBlockChords(c *gin.Context) {
	var req models.BlockChordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	if _, ok := h.currentBlock(c, id); !ok {
		return
	}
	h.store.SetBlockChordProgression(id, req.Progression)
	h.respondState(c)
}

// ExplainChords asks the generation provider to explain a progression at three levels.
func (h *Handler) ExplainChords(c *gin.Context) {
	var req models.ExplainChordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = models.ModeMajor
	}
	c.JSON(http.StatusOK, h.lyrics.ExplainProgression(c.Request.Context(), req.Chords, req.Key, mode, req.Genre))
}

// GenerateMidi renders chords to a Standard MIDI File. Without explicit chords
// it uses the block's progression, or the song's.
func (h *Handler) GenerateMidi(c *gin.Context) {
	var req models.MidiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Pattern != "" && !midi.ValidPattern(req.Pattern) {
		badRequest(c, fmt.Errorf("unknown pattern: %s", req.Pattern))
		return
	}

	if len(req.Chords) == 0 {
		song := h.currentSong(c)
		if song == nil {
			return
		}
		p := song.ChordProgression
		if req.BlockID != "" {
			block, ok := song.Block(req.BlockID)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
				return
			}
			p = block.ChordProgression
		}
		req.Chords = p.Symbols()
	}
	if len(req.Chords) == 0 {
		badRequest(c, errors.New("no chords to render"))
		return
	}

	var buf bytes.Buffer
	if err := midi.Write(&buf, req); err != nil {
		h.internalError(c, "could not render midi", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="progression.mid"`)
	c.Data(http.StatusOK, "audio/midi", buf.Bytes())
}
