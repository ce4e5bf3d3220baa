package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"songsmith/backend/export"
)

// ExportSong downloads the current song as ?format=txt (default) or pdf.
func (h *Handler) ExportSong(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatText)))
	if err != nil {
		badRequest(c, err)
		return
	}
	song := h.currentSong(c)
	if song == nil {
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, song, format); err != nil {
		h.internalError(c, "could not export song", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(song, format)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
