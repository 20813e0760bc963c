// Package provider selects and wraps the completion backend: send one
// prompt, receive one raw text completion. The backend is resolved once
// at startup from the configured credentials and never changes for the
// lifetime of the process.
package provider

import (
	"context"
	"time"
)

// Client is the capability every backend implements. A Client holds no
// per-request state; one instance serves the whole process.
type Client interface {
	// Complete sends a single user-role message and returns the raw
	// text of the model's reply.
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend for logs and metrics.
	Name() string
	// Model returns the configured model identifier.
	Model() string
}

// Config carries the startup settings for all backends. Resolve picks
// exactly one of them.
type Config struct {
	OpenAI OpenAISettings
	Gemini GeminiSettings
	Ollama OllamaSettings
}

// OpenAISettings configures the OpenAI-compatible cloud backend.
type OpenAISettings struct {
	APIKey string
	Model  string
	// BaseURL overrides the public endpoint; empty means api.openai.com.
	BaseURL string
}

// GeminiSettings configures the Gemini cloud backend.
type GeminiSettings struct {
	APIKey string
	Model  string
}

// OllamaSettings configures the local backend.
type OllamaSettings struct {
	BaseURL string
	Model   string
	// Timeout bounds one completion round trip against the local model.
	Timeout time.Duration
}
