package llm

import (
	"context"
	"fmt"
	"log/slog"

	"synapse/internal/config"
	domainllm "synapse/internal/domain/services/llm"
	"synapse/internal/service/llm/providers/gemini"
	"synapse/internal/service/llm/providers/lorem"
)

// Backend is a provider that can both generate text and synthesize speech.
type Backend interface {
	domainllm.GenerationBackend
	domainllm.SpeechBackend
}

// ProviderFactory creates backend instances from config
type ProviderFactory struct {
	config *config.Config
	logger *slog.Logger
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config, logger *slog.Logger) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
		logger: logger,
	}
}

// GetProvider returns a backend for the given provider name
//
// Supported providers:
//   - "gemini" - Gemini models via the Gen AI SDK
//   - "lorem" - Mock provider for testing (no API key required)
func (f *ProviderFactory) GetProvider(ctx context.Context, providerName string) (Backend, error) {
	switch providerName {
	case "gemini":
		return f.createGeminiProvider(ctx)

	case "lorem":
		return lorem.NewProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// createGeminiProvider creates a Gemini provider instance
func (f *ProviderFactory) createGeminiProvider(ctx context.Context) (Backend, error) {
	provider, err := gemini.NewProvider(ctx, f.config.APIKey(), f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
	}
	return provider, nil
}
