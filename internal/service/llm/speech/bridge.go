// Package speech synthesizes assistant replies into playable WAV data URIs.
package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"synapse/internal/domain"
	domainllm "synapse/internal/domain/services/llm"
	"synapse/internal/utils"
)

// Bridge is the audio synthesis bridge.
type Bridge struct {
	backend domainllm.SpeechBackend
	model   string
	voice   string
	logger  *slog.Logger
}

// NewBridge creates a speech bridge. voice may be empty for the backend default.
func NewBridge(backend domainllm.SpeechBackend, model, voice string, logger *slog.Logger) *Bridge {
	return &Bridge{backend: backend, model: model, voice: voice, logger: logger}
}

// Synthesize returns text spoken as data:audio/wav;base64,...
// A backend answer without media fails with domain.ErrNoAudio.
func (b *Bridge) Synthesize(ctx context.Context, text string) (string, error) {
	media, err := b.backend.Synthesize(ctx, &domainllm.SpeechRequest{
		Model: b.model,
		Text:  text,
		Voice: b.voice,
	})
	if err != nil {
		return "", fmt.Errorf("synthesize speech: %w", err)
	}
	if media == nil || media.URL == "" {
		return "", domain.ErrNoAudio
	}

	pcm, err := base64.StdEncoding.DecodeString(utils.DataURIPayload(media.URL))
	if err != nil {
		return "", fmt.Errorf("decode audio payload: %w", err)
	}

	b.logger.Debug("speech synthesized",
		"model", b.model,
		"content_type", media.ContentType,
		"pcm_bytes", len(pcm),
	)

	wav := EncodeWAV(pcm, Channels, SampleRate, BitsPerSample)
	return utils.EncodeDataURI("audio/wav", wav), nil
}
