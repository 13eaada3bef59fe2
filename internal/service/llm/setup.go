package llm

import (
	"context"
	"fmt"
	"log/slog"

	"synapse/internal/config"
	"synapse/internal/domain/repositories"
	llmSvc "synapse/internal/domain/services/llm"
	"synapse/internal/service/llm/action"
	"synapse/internal/service/llm/chat"
	"synapse/internal/service/llm/generation"
	"synapse/internal/service/llm/speech"
)

// loremModels replace the Gemini model names when the lorem backend is selected
const (
	loremDefaultModel = "lorem-fast"
	loremProModel     = "lorem-medium"
)

// Services holds all LLM-related services
type Services struct {
	Actions llmSvc.ActionService
	Chat    llmSvc.ChatService
	Backend string
}

// SetupServices initializes all LLM services with proper dependency injection
func SetupServices(
	ctx context.Context,
	sessions repositories.SessionStore,
	cfg *config.Config,
	logger *slog.Logger,
) (*Services, error) {
	backend, err := NewProviderFactory(cfg, logger).GetProvider(ctx, cfg.GenerationBackend)
	if err != nil {
		return nil, fmt.Errorf("provider setup failed: %w", err)
	}

	genCfg := generation.Config{
		DefaultModel: cfg.DefaultModel,
		ProModel:     cfg.ProModel,
		MediaStrict:  cfg.MediaStrict,
	}
	ttsModel := cfg.TTSModel
	if backend.Name() == "lorem" {
		genCfg.DefaultModel = loremDefaultModel
		genCfg.ProModel = loremProModel
		ttsModel = "lorem-tts"
	}

	logger.Info("generation backend ready",
		"provider", backend.Name(),
		"default_model", genCfg.DefaultModel,
		"pro_model", genCfg.ProModel,
		"tts_model", ttsModel,
		"media_strict", genCfg.MediaStrict,
	)

	actions := action.NewService(
		generation.NewBridge(backend, genCfg, logger),
		speech.NewBridge(backend, ttsModel, cfg.TTSVoice, logger),
		logger,
	)

	return &Services{
		Actions: actions,
		Chat:    chat.NewService(sessions, actions, logger),
		Backend: backend.Name(),
	}, nil
}
