// Package assist talks to the external text-generation and rhyme services and
// keeps the transient suggestion state shown next to the editor.
package assist

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"songsmith/backend/config"
)

// TokenFunc receives each streamed fragment in order.
type TokenFunc func(token string)

// Provider streams a completion for a system and user prompt.
type Provider interface {
	Name() string
	Stream(ctx context.Context, system, prompt string, onToken TokenFunc) error
}

// Complete drains a streamed completion into a single string.
func Complete(ctx context.Context, p Provider, system, prompt string) (string, error) {
	var sb strings.Builder
	err := p.Stream(ctx, system, prompt, func(tok string) { sb.WriteString(tok) })
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// NewProvider builds the provider selected by cfg.Provider.
func NewProvider(cfg config.AIConfig, client *http.Client) (Provider, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	switch cfg.Provider {
	case "", "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return NewOllamaProvider(baseURL, cfg.Model, client), nil
	case "openai":
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, client), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Provider)
	}
}
