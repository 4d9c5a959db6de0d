package recommend

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API through the google.golang.org/genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed completer.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Complete sends one prompt and returns the response text.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return result.Text(), nil
}
