package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when neither the provider nor options name one.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements the Provider interface for Google's Gemini models.
type GeminiProvider struct {
	APIKey string // falls back to GEMINI_API_KEY
	Model  string // e.g. "gemini-2.0-flash"
}

// Ensure interface compliance
var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider returns nil when no API key is available, so callers can
// treat the narrative as an optional feature.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil
	}
	return &GeminiProvider{APIKey: apiKey, Model: model}
}

// GenerateResponse sends a generateContent request to the Gemini API using the official GenAI SDK.
func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := p.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	// Determine model
	model := p.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	temperature := float32(0.3)
	if val, ok := options["temperature"].(float64); ok {
		temperature = float32(val)
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature), // SDK expects *float32
	}

	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		}
	}

	result, err := client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return result.Text(), nil
}
