// Package gemini implements the completion client for the Gemini API.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/simplylegal/simplylegal/internal/apperrors"
	"github.com/simplylegal/simplylegal/internal/httpclient"
)

type Client struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewClient creates a Gemini client for the given model.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	// option.WithHTTPClient interferes with the SDK's API key header
	// injection, so timeouts are enforced per call via context instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	// The prompt asks for a JSON object; declaring the MIME type nudges
	// the model toward compliance. The normalizer still tolerates
	// anything else.
	model.ResponseMIMEType = "application/json"

	return &Client{
		client:    client,
		model:     model,
		modelName: modelName,
	}, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) Model() string { return c.modelName }

// Complete sends prompt as user content and returns the combined text
// parts of the first non-empty candidate.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	// The SDK client carries no overall timeout of its own.
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyError(err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return "", apperrors.New(
			apperrors.KindUnavailable,
			"Language service returned an empty response.",
			err,
		)
	}
	return text, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined += string(text)
		}
		if combined != "" {
			return combined, nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
