// Package gemini adapts the Google Gen AI SDK to the generation and speech backends.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// Provider wraps one genai client. It serves both generation and speech.
type Provider struct {
	client *genai.Client
	logger *slog.Logger
}

// NewProvider creates a Gemini provider using the Gemini API backend.
func NewProvider(ctx context.Context, apiKey string, logger *slog.Logger) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Provider{client: client, logger: logger}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "gemini"
}
