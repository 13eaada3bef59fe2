// Package generation turns a system prompt, user text and optional media
// into a streamed reply from a GenerationBackend.
package generation

import (
	"context"
	"fmt"
	"log/slog"

	"synapse/internal/domain"
	domainllm "synapse/internal/domain/services/llm"
	"synapse/internal/utils"
)

// SafetySettings is applied to every request and is not configurable.
var SafetySettings = []domainllm.SafetySetting{
	{Category: domainllm.HarmCategoryHarassment, Threshold: domainllm.BlockMediumAndAbove},
	{Category: domainllm.HarmCategoryHateSpeech, Threshold: domainllm.BlockMediumAndAbove},
	{Category: domainllm.HarmCategorySexuallyExplicit, Threshold: domainllm.BlockMediumAndAbove},
	{Category: domainllm.HarmCategoryDangerousContent, Threshold: domainllm.BlockMediumAndAbove},
}

// Config selects models and the malformed-media policy.
type Config struct {
	DefaultModel string // used for text-only requests
	ProModel     string // used whenever media is supplied
	MediaStrict  bool   // reject media that is not a base64 data URI
}

// Bridge is the generation bridge.
type Bridge struct {
	backend domainllm.GenerationBackend
	cfg     Config
	logger  *slog.Logger
}

// NewBridge creates a generation bridge over backend.
func NewBridge(backend domainllm.GenerationBackend, cfg Config, logger *slog.Logger) *Bridge {
	return &Bridge{backend: backend, cfg: cfg, logger: logger}
}

// Generate starts a generation and waits for its first event.
// A failure before the first fragment is returned as error; later failures end the
// stream and show up in TextStream.Err. There are no retries.
// mediaDataURI is optional; pass "" for none.
func (b *Bridge) Generate(ctx context.Context, systemPrompt, userText, mediaDataURI string) (*domainllm.TextStream, string, error) {
	req, err := b.buildRequest(systemPrompt, userText, mediaDataURI)
	if err != nil {
		return nil, "", err
	}

	b.logger.Debug("starting generation",
		"backend", b.backend.Name(),
		"model", req.Model,
		"has_attachment", req.Attachment != nil,
		"text_length", len(userText),
	)

	events, err := b.backend.StreamResponse(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("start generation: %w", err)
	}

	stream := domainllm.NewTextStream(events)
	if err := stream.Prime(ctx); err != nil {
		return nil, "", fmt.Errorf("generation failed: %w", err)
	}
	return stream, req.Model, nil
}

// ModelFor returns the model a request with or without media is routed to.
func (b *Bridge) ModelFor(hasMedia bool) string {
	if hasMedia {
		return b.cfg.ProModel
	}
	return b.cfg.DefaultModel
}

func (b *Bridge) buildRequest(systemPrompt, userText, mediaDataURI string) (*domainllm.GenerateRequest, error) {
	hasMedia := mediaDataURI != ""
	req := &domainllm.GenerateRequest{
		Model:        b.ModelFor(hasMedia),
		SystemPrompt: systemPrompt,
		Text:         userText,
		Safety:       SafetySettings,
	}

	if hasMedia {
		uri, ok := utils.ParseDataURI(mediaDataURI)
		switch {
		case ok:
			req.Attachment = &domainllm.Attachment{MIMEType: uri.MIMEType, Data: uri.Data}
		case b.cfg.MediaStrict:
			return nil, &domain.ValidationError{Message: "media must be a base64 data URI"}
		default:
			b.logger.Warn("dropping malformed media attachment", "length", len(mediaDataURI))
		}
	}
	return req, nil
}
