package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "songs", cfg.Storage.Key)
	assert.Equal(t, "http://localhost:11434", cfg.AI.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Assist.SuggestionDebounce)
	assert.Equal(t, 800*time.Millisecond, cfg.Assist.RhymeDebounce)
	assert.False(t, cfg.IsProduction())
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("D_GO", "250ms")
	t.Setenv("D_MS", "1200")
	t.Setenv("D_BAD", "soon")

	assert.Equal(t, 250*time.Millisecond, getEnvAsDuration("D_GO", time.Second))
	assert.Equal(t, 1200*time.Millisecond, getEnvAsDuration("D_MS", time.Second))
	assert.Equal(t, time.Second, getEnvAsDuration("D_BAD", time.Second))
	assert.Equal(t, time.Second, getEnvAsDuration("D_UNSET", time.Second))
}

func TestGetEnv_EmptyValueWins(t *testing.T) {
	t.Setenv("AI_API_KEY", "")
	assert.Equal(t, "", getEnv("AI_API_KEY", "fallback"))
}
