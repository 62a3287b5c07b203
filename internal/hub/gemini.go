package hub

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// =============================================================================
// GEMINI BACKEND - GATED CANDIDATE
// =============================================================================

// geminiGenerator serves slots through the Gemini API. It only joins the
// candidate chain when an API key is configured.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func newGeminiGenerator(apiKey, model string) (*geminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string, settings GenerationSettings) (string, error) {
	config := &genai.GenerateContentConfig{}
	if settings.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(settings.Temperature))
	}
	if settings.TopP > 0 {
		config.TopP = genai.Ptr(float32(settings.TopP))
	}
	if settings.MaxNewTokens > 0 {
		config.MaxOutputTokens = int32(settings.MaxNewTokens)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("Gemini generate failed: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("Gemini returned an empty completion")
	}
	return text, nil
}

func (g *geminiGenerator) ModelID() string {
	return "gemini:" + g.model
}
