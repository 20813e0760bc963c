// Package ollama implements the completion client for a locally hosted
// Ollama server. This is the fallback backend when no cloud credential
// is configured.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/simplylegal/simplylegal/internal/apperrors"
	"github.com/simplylegal/simplylegal/internal/httpclient"
)

const DefaultBaseURL = "http://localhost:11434"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient builds a client against the given Ollama server. The
// timeout bounds one completion; local models on modest hardware can
// legitimately take minutes per chunk.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = httpclient.DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: httpclient.NewClient(timeout),
	}
}

func (c *Client) Name() string { return "ollama" }

func (c *Client) Model() string { return c.model }

// Complete sends prompt as a single user message to /api/chat and
// returns the reply's message content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, resp, err := httpclient.DoAndRead(c.httpClient, httpReq)
	if err != nil {
		return "", apperrors.New(
			apperrors.KindUnavailable,
			"Local language service unavailable. Is the Ollama server running?",
			fmt.Errorf("ollama request failed: %w", err),
		)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(c.model, resp.StatusCode, body)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", apperrors.New(
			apperrors.KindUnavailable,
			"Local language service returned an unusable response.",
			fmt.Errorf("failed to decode response: %w", err),
		)
	}
	return result.Message.Content, nil
}

func classifyStatus(model string, statusCode int, body []byte) error {
	var envelope errorEnvelope
	_ = json.Unmarshal(body, &envelope)
	cause := fmt.Errorf("ollama status=%d error=%s", statusCode, envelope.Error)

	switch {
	case statusCode == http.StatusNotFound:
		return apperrors.New(
			apperrors.KindBadRequest,
			fmt.Sprintf("Model %q is not available locally. Pull it first with: ollama pull %s", model, model),
			cause,
		)
	case statusCode >= 500:
		return apperrors.New(
			apperrors.KindUnavailable,
			fmt.Sprintf("Local language service error (%d). Please try again later.", statusCode),
			cause,
		)
	default:
		return apperrors.New(
			apperrors.KindBadRequest,
			fmt.Sprintf("Local language service rejected the request (%d).", statusCode),
			cause,
		)
	}
}
