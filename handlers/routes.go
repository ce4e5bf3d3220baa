package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts every route on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/block-types", GetBlockTypes)
		api.GET("/templates", GetTemplates)
		api.GET("/keys", GetKeys)
		api.GET("/midi/patterns", GetPatterns)

		api.POST("/songs", h.CreateSong)
		api.GET("/songs/current", h.GetCurrentSong)
		api.PATCH("/songs/current", h.UpdateMeta)
		api.PUT("/songs/current", h.LoadSong)
		api.POST("/songs/current/save", h.SaveSong)
		api.POST("/songs/current/undo", h.Undo)
		api.POST("/songs/current/redo", h.Redo)
		api.PUT("/songs/current/active", h.SetActiveBlock)
		api.GET("/songs/current/export", h.ExportSong)

		blocks := api.Group("/songs/current/blocks")
		blocks.POST("", h.AddBlock)
		blocks.POST("/template", h.AddBlocksFromTemplate)
		blocks.PUT("/order", h.ReorderBlocks)
		blocks.POST("/:id/duplicate", h.DuplicateBlock)
		blocks.PUT("/:id", h.UpdateBlock)
		blocks.DELETE("/:id", h.DeleteBlock)
		blocks.PUT("/:id/chords", h.SetBlockChords)

		api.GET("/library", h.ListLibrary)
		api.POST("/library/:id/open", h.OpenSong)
		api.DELETE("/library/:id", h.DeleteSong)

		api.POST("/chords/generate", h.GenerateChords)
		api.POST("/chords/explain", h.ExplainChords)
		api.POST("/transpose", Transpose)
		api.POST("/midi", h.GenerateMidi)

		api.GET("/assist", h.GetAssistState)
		api.PUT("/assist/selection", h.SetSelection)
		api.POST("/assist/autocomplete", h.Autocomplete)
		api.GET("/rhymes/:word", h.GetRhymes)
	}
}
