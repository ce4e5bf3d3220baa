package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"songsmith/backend/data"
	"songsmith/backend/midi"
	"songsmith/backend/models"
	"songsmith/backend/theory"
)

// GetBlockTypes returns the block type catalogue.
func GetBlockTypes(c *gin.Context) {
	infos, err := data.BlockTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load block types"})
		return
	}
	c.JSON(http.StatusOK, infos)
}

// GetTemplates returns the song structure presets.
func GetTemplates(c *gin.Context) {
	templates, err := data.Templates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load templates"})
		return
	}
	c.JSON(http.StatusOK, templates)
}

func GetKeys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"keys":  models.Keys,
		"modes": []models.Mode{models.ModeMajor, models.ModeMinor},
	})
}

func GetPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, midi.Patterns())
}

// Transpose performs a batch transposition of chord names from one key to another.
func Transpose(c *gin.Context) {
	var req models.TransposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, theory.Transpose(req))
}
