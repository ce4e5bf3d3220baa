package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"songsmith/backend/models"
)

// CreateSong starts a new empty song and makes it current.
func (h *Handler) CreateSong(c *gin.Context) {
	var req models.CreateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		badRequest(c, errors.New("title must not be blank"))
		return
	}
	h.store.CreateNewSong(title, strings.TrimSpace(req.Artist), strings.TrimSpace(req.Genre))
	c.JSON(http.StatusCreated, h.state())
}

func (h *Handler) GetCurrentSong(c *gin.Context) {
	if h.currentSong(c) == nil {
		return
	}
	h.respondState(c)
}

// UpdateMeta patches title, artist and genre. These edits are not undoable.
func (h *Handler) UpdateMeta(c *gin.Context) {
	var req models.UpdateMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		badRequest(c, errors.New("title must not be blank"))
		return
	}
	if h.currentSong(c) == nil {
		return
	}
	h.store.UpdateMeta(req.Title, req.Artist, req.Genre)
	h.respondState(c)
}

// LoadSong replaces the current song with the posted document.
func (h *Handler) LoadSong(c *gin.Context) {
	var song models.Song
	if err := c.ShouldBindJSON(&song); err != nil {
		badRequest(c, err)
		return
	}
	if song.ID == "" {
		badRequest(c, errors.New("song id is required"))
		return
	}
	h.store.LoadSong(&song)
	h.respondState(c)
}

// SaveSong writes the current song to the library.
func (h *Handler) SaveSong(c *gin.Context) {
	song := h.currentSong(c)
	if song == nil {
		return
	}
	if err := h.library.Save(c.Request.Context(), song); err != nil {
		h.internalError(c, "could not save song", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": song.ID, "savedAt": song.UpdatedAt})
}

func (h *Handler) Undo(c *gin.Context) {
	if h.currentSong(c) == nil {
		return
	}
	h.store.Undo()
	h.respondState(c)
}

func (h *Handler) Redo(c *gin.Context) {
	if h.currentSong(c) == nil {
		return
	}
	h.store.Redo()
	h.respondState(c)
}

// SetActiveBlock selects a block, or clears the selection when id is null.
func (h *Handler) SetActiveBlock(c *gin.Context) {
	var req models.ActiveBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.ID == nil || *req.ID == "" {
		if h.currentSong(c) == nil {
			return
		}
		h.store.SetActiveBlock("")
		h.respondState(c)
		return
	}
	if _, ok := h.currentBlock(c, *req.ID); !ok {
		return
	}
	h.store.SetActiveBlock(*req.ID)
	h.respondState(c)
}
