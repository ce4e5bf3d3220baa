// Package handlers exposes the songwriting session over HTTP.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"songsmith/backend/assist"
	"songsmith/backend/logger"
	"songsmith/backend/models"
	"songsmith/backend/storage"
	"songsmith/backend/store"
	"songsmith/backend/theory"
)

const logModule = "http"

// Lyricist is the generation side used directly by handlers.
type Lyricist interface {
	ExplainProgression(ctx context.Context, chords []string, key models.Key, mode models.Mode, genre string) models.ChordExplanation
}

// Deps wires a Handler.
type Deps struct {
	Store     *store.Store
	Library   *storage.Library
	Lyrics    Lyricist
	Assistant *assist.Assistant
	Rhymes    assist.Rhymer
	Chords    *theory.Generator
	Log       logger.ILogger
}

type Handler struct {
	store     *store.Store
	library   *storage.Library
	lyrics    Lyricist
	assistant *assist.Assistant
	rhymes    assist.Rhymer
	chords    *theory.Generator
	log       logger.ILogger
}

func New(d Deps) *Handler {
	h := &Handler{
		store:     d.Store,
		library:   d.Library,
		lyrics:    d.Lyrics,
		assistant: d.Assistant,
		rhymes:    d.Rhymes,
		chords:    d.Chords,
		log:       d.Log,
	}
	if h.chords == nil {
		h.chords = theory.NewGenerator(nil)
	}
	if h.log == nil {
		h.log = logger.NewNop()
	}
	return h
}

// SongState is the body returned by every song-editing endpoint.
type SongState struct {
	Song          *models.Song `json:"song"`
	ActiveBlockID *string      `json:"activeBlockId"`
	CanUndo       bool         `json:"canUndo"`
	CanRedo       bool         `json:"canRedo"`
}

func (h *Handler) state() SongState {
	st := SongState{
		Song:    h.store.Snapshot(),
		CanUndo: h.store.CanUndo(),
		CanRedo: h.store.CanRedo(),
	}
	if id := h.store.ActiveBlockID(); id != "" {
		st.ActiveBlockID = &id
	}
	return st
}

func (h *Handler) respondState(c *gin.Context) {
	c.JSON(http.StatusOK, h.state())
}

// currentSong writes 409 and returns nil when no song is open.
func (h *Handler) currentSong(c *gin.Context) *models.Song {
	song := h.store.Snapshot()
	if song == nil {
		c.JSON(http.StatusConflict, gin.H{"error": store.ErrNoSong.Error()})
		return nil
	}
	return song
}

// currentBlock writes 409 or 404 and returns false when the block is not there.
func (h *Handler) currentBlock(c *gin.Context, id string) (*models.Song, bool) {
	song := h.currentSong(c)
	if song == nil {
		return nil, false
	}
	if _, ok := song.Block(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": assist.ErrBlockNotFound.Error()})
		return nil, false
	}
	return song, true
}

func (h *Handler) internalError(c *gin.Context, message string, err error) {
	h.log.Error(logModule, message, map[string]interface{}{
		"error":      err,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(requestIDKey),
	})
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrSongNotFound)
}
