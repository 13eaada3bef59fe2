package gemini

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"

	domainllm "synapse/internal/domain/services/llm"
)

// StreamResponse starts a streaming generation. Text deltas are forwarded in
// arrival order, followed by one metadata event.
func (p *Provider) StreamResponse(ctx context.Context, req *domainllm.GenerateRequest) (<-chan domainllm.StreamEvent, error) {
	contents, err := buildContents(req)
	if err != nil {
		return nil, err
	}
	cfg := buildGenerateConfig(req)

	eventChan := make(chan domainllm.StreamEvent, 10)

	go func() {
		defer close(eventChan)

		send := func(ev domainllm.StreamEvent) bool {
			select {
			case eventChan <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		meta := &domainllm.StreamMetadata{Model: req.Model}
		for resp, err := range p.client.Models.GenerateContentStream(ctx, req.Model, contents, cfg) {
			if err != nil {
				send(domainllm.StreamEvent{Error: fmt.Errorf("gemini stream: %w", err)})
				return
			}
			if resp.ModelVersion != "" {
				meta.Model = resp.ModelVersion
			}
			if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
				meta.FinishReason = string(resp.Candidates[0].FinishReason)
			}
			if text := resp.Text(); text != "" {
				if !send(domainllm.StreamEvent{Delta: text}) {
					return
				}
			}
		}

		p.logger.Debug("gemini stream finished",
			"model", meta.Model,
			"finish_reason", meta.FinishReason,
		)
		send(domainllm.StreamEvent{Metadata: meta})
	}()

	return eventChan, nil
}

// buildContents converts a request into a single user turn: the text part,
// then the attachment. Empty text is dropped when an attachment carries the turn.
func buildContents(req *domainllm.GenerateRequest) ([]*genai.Content, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.Text != "" || req.Attachment == nil {
		parts = append(parts, genai.NewPartFromText(req.Text))
	}
	if req.Attachment != nil {
		data, err := base64.StdEncoding.DecodeString(req.Attachment.Data)
		if err != nil {
			return nil, fmt.Errorf("decode attachment: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, req.Attachment.MIMEType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

func buildGenerateConfig(req *domainllm.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	for _, s := range req.Safety {
		cfg.SafetySettings = append(cfg.SafetySettings, &genai.SafetySetting{
			Category:  genai.HarmCategory(s.Category),
			Threshold: genai.HarmBlockThreshold(s.Threshold),
		})
	}
	return cfg
}
