package llm

import (
	"context"
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// StaticProvider returns a fixed response. Used when the narrative must be
// produced offline (tests, demos).
type StaticProvider struct {
	Response string
	Err      error

	// LastPrompt and LastSystemPrompt record the most recent call.
	LastPrompt       string
	LastSystemPrompt string
}

func (p *StaticProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	p.LastPrompt = prompt
	p.LastSystemPrompt = systemPrompt
	if p.Err != nil {
		return "", p.Err
	}
	return p.Response, nil
}
