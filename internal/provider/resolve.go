package provider

import (
	"context"

	"github.com/simplylegal/simplylegal/internal/logger"
	"github.com/simplylegal/simplylegal/internal/provider/gemini"
	"github.com/simplylegal/simplylegal/internal/provider/ollama"
	"github.com/simplylegal/simplylegal/internal/provider/openai"
)

var (
	_ Client = (*openai.Client)(nil)
	_ Client = (*gemini.Client)(nil)
	_ Client = (*ollama.Client)(nil)
)

// Resolve picks the completion backend once at startup. A configured
// cloud credential wins unconditionally, OpenAI before Gemini, with no
// runtime fallback between backends; without a cloud credential the
// local Ollama endpoint serves.
func Resolve(ctx context.Context, cfg Config) (Client, error) {
	switch {
	case cfg.OpenAI.APIKey != "":
		logger.Info("Completion backend selected", "backend", "openai", "model", cfg.OpenAI.Model)
		return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL), nil
	case cfg.Gemini.APIKey != "":
		logger.Info("Completion backend selected", "backend", "gemini", "model", cfg.Gemini.Model)
		return gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		logger.Info("No cloud credential configured, using local backend", "backend", "ollama", "model", cfg.Ollama.Model)
		return ollama.NewClient(cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.Timeout), nil
	}
}
