package assessment

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

// GeminiGenerator implements Generator on top of the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator connects to the Gemini API with the given key.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) config(systemPrompt string, temperature float32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, prompt string, temperature float32) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config(systemPrompt, temperature))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

func (g *GeminiGenerator) Stream(ctx context.Context, systemPrompt, prompt string, temperature float32) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), g.config(systemPrompt, temperature))
		for resp, err := range stream {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			if text := resp.Text(); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}
