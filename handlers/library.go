package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"songsmith/backend/storage"
)

// ListLibrary returns saved songs filtered by ?q= and ordered by ?sort=date|title.
func (h *Handler) ListLibrary(c *gin.Context) {
	sortBy := storage.SortBy(c.DefaultQuery("sort", string(storage.SortByDate)))
	if sortBy != storage.SortByDate && sortBy != storage.SortByTitle {
		badRequest(c, fmt.Errorf("unknown sort: %s", sortBy))
		return
	}
	songs, err := h.library.List(c.Request.Context(), c.Query("q"), sortBy)
	if err != nil {
		h.internalError(c, "could not list songs", err)
		return
	}
	c.JSON(http.StatusOK, songs)
}

// OpenSong loads a saved song as the current song.
func (h *Handler) OpenSong(c *gin.Context) {
	song, err := h.library.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.internalError(c, "could not open song", err)
		return
	}
	h.store.LoadSong(song)
	h.respondState(c)
}

func (h *Handler) DeleteSong(c *gin.Context) {
	if err := h.library.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.internalError(c, "could not delete song", err)
		return
	}
	c.Status(http.StatusNoContent)
}
