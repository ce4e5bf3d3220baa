package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"songsmith/backend/models"
)

// GetAssistState returns the current suggestions and rhymes for the active block.
func (h *Handler) GetAssistState(c *gin.Context) {
	c.JSON(http.StatusOK, h.assistant.State())
}

// SetSelection records a text selection in the active block. A collapsed
// selection falls back to rhyming the end of the block.
func (h *Handler) SetSelection(c *gin.Context) {
	var req models.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	active := h.store.ActiveBlockID()
	if active == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no active block"})
		return
	}
	h.assistant.SetSelection(active, req.Start, req.End)
	c.JSON(http.StatusOK, h.assistant.State())
}

// Autocomplete finishes the line being typed. Provider failures degrade to an
// empty completion.
func (h *Handler) Autocomplete(c *gin.Context) {
	var req models.AutocompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	completion, err := h.assistant.Autocomplete(c.Request.Context(), req.TextBefore)
	if err != nil {
		h.log.Warn(logModule, "autocomplete failed", map[string]interface{}{
			"error":      err.Error(),
			"request_id": c.GetString(requestIDKey),
		})
		completion = ""
	}
	c.JSON(http.StatusOK, gin.H{"completion": completion})
}

func (h *Handler) GetRhymes(c *gin.Context) {
	c.JSON(http.StatusOK, h.rhymes.Rhymes(c.Request.Context(), c.Param("word")))
}
