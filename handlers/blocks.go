package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"songsmith/backend/data"
	"songsmith/backend/models"
)

func (h *Handler) AddBlock(c *gin.Context) {
	var req models.AddBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if h.currentSong(c) == nil {
		return
	}
	h.store.AddBlock(req.Type)
	h.respondState(c)
}

// AddBlocksFromTemplate appends the blocks of a named template or an explicit
// type list as one undo step.
func (h *Handler) AddBlocksFromTemplate(c *gin.Context) {
	var req models.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	types := req.Types
	if req.TemplateID != "" {
		tpl, ok, err := data.Template(req.TemplateID)
		if err != nil {
			h.internalError(c, "could not load templates", err)
			return
		}
		if !ok {
			badRequest(c, fmt.Errorf("unknown template: %s", req.TemplateID))
			return
		}
		types = tpl.Structure
	}
	if len(types) == 0 {
		badRequest(c, errors.New("templateId or types is required"))
		return
	}
	if h.currentSong(c) == nil {
		return
	}
	h.store.AddBlocksFromTemplate(types)
	h.respondState(c)
}

func (h *Handler) DuplicateBlock(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.currentBlock(c, id); !ok {
		return
	}
	h.store.DuplicateBlock(id)
	h.respondState(c)
}

// UpdateBlock replaces a block's lyrics. Every call is one undo step, so
// clients should send settled text rather than each keystroke.
func (h *Handler) UpdateBlock(c *gin.Context) {
	var req models.UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	if _, ok := h.currentBlock(c, id); !ok {
		return
	}
	h.store.UpdateBlock(id, req.Content)
	h.respondState(c)
}

func (h *Handler) DeleteBlock(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.currentBlock(c, id); !ok {
		return
	}
	h.store.DeleteBlock(id)
	h.respondState(c)
}

// ReorderBlocks takes the complete new order. Blocks left out are removed.
func (h *Handler) ReorderBlocks(c *gin.Context) {
	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if h.currentSong(c) == nil {
		return
	}
	h.store.ReorderBlocks(req.IDs)
	h.respondState(c)
}
