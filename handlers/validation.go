package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"songsmith/backend/models"
)

var registerOnce sync.Once

// RegisterValidators adds the blocktype, musickey and mode binding tags to
// gin's validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("blocktype", func(fl validator.FieldLevel) bool {
			return models.BlockType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("musickey", func(fl validator.FieldLevel) bool {
			return models.Key(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
			return models.Mode(fl.Field().String()).Valid()
		})
	})
}
