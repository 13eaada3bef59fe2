// Package action is the single error-translation boundary between the bridges and callers.
package action

import (
	"context"
	"fmt"
	"log/slog"

	domainllm "synapse/internal/domain/services/llm"
	"synapse/internal/service/llm/prompt"
)

// Generator starts a streamed generation.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userText, mediaDataURI string) (*domainllm.TextStream, string, error)
}

// Synthesizer turns text into a WAV data URI.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Service implements domainllm.ActionService.
type Service struct {
	generator   Generator
	synthesizer Synthesizer
	logger      *slog.Logger
}

// NewService creates the action layer.
func NewService(generator Generator, synthesizer Synthesizer, logger *slog.Logger) domainllm.ActionService {
	return &Service{
		generator:   generator,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// Invoke builds the system prompt for mode and language and starts a generation.
// Empty text without media is forwarded as-is; callers enforce "text or media".
func (s *Service) Invoke(ctx context.Context, req *domainllm.InvokeRequest) (result *domainllm.InvokeResult) {
	defer func() {
		if r := recover(); r != nil {
			result = s.invokeFailure(req, fmt.Errorf("panic: %v", r))
		}
	}()

	var media string
	if req.Media != nil {
		media = *req.Media
	}

	systemPrompt := prompt.BuildSystemPrompt(req.Mode, req.Language)
	stream, model, err := s.generator.Generate(ctx, systemPrompt, req.Text, media)
	if err != nil {
		return s.invokeFailure(req, err)
	}

	return &domainllm.InvokeResult{
		Success:  true,
		Response: &domainllm.InvokeResponse{Content: stream, Model: model},
	}
}

// SynthesizeAudio converts text to speech.
func (s *Service) SynthesizeAudio(ctx context.Context, text string) (result *domainllm.AudioResult) {
	defer func() {
		if r := recover(); r != nil {
			result = s.audioFailure(fmt.Errorf("panic: %v", r))
		}
	}()

	audio, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return s.audioFailure(err)
	}
	return &domainllm.AudioResult{
		Success:  true,
		Response: &domainllm.AudioResponse{Audio: audio},
	}
}

func (s *Service) invokeFailure(req *domainllm.InvokeRequest, err error) *domainllm.InvokeResult {
	s.logger.Error("AI invocation failed",
		"mode", req.Mode,
		"language", req.Language,
		"has_media", req.Media != nil,
		"error", err,
	)
	return &domainllm.InvokeResult{Success: false, Error: errorMessage(err)}
}

func (s *Service) audioFailure(err error) *domainllm.AudioResult {
	s.logger.Error("audio generation failed", "error", err)
	return &domainllm.AudioResult{Success: false, Error: errorMessage(err), Cause: err}
}

func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "An unknown error occurred."
	}
	return err.Error()
}
