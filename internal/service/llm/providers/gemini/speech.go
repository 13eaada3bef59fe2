package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	domainllm "synapse/internal/domain/services/llm"
	"synapse/internal/utils"
)

// Synthesize asks the TTS model for an audio-only response. The first inline
// audio part is returned as a data URI; nil means the model sent no audio.
func (p *Provider) Synthesize(ctx context.Context, req *domainllm.SpeechRequest) (*domainllm.Media, error) {
	resp, err := p.client.Models.GenerateContent(ctx, req.Model,
		genai.Text(req.Text),
		buildSpeechConfig(req),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini tts: %w", err)
	}
	return firstInlineMedia(resp), nil
}

func buildSpeechConfig(req *domainllm.SpeechRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
	}
	if req.Voice != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		}
	}
	return cfg
}

func firstInlineMedia(resp *genai.GenerateContentResponse) *domainllm.Media {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			return &domainllm.Media{
				URL:         utils.EncodeDataURI(part.InlineData.MIMEType, part.InlineData.Data),
				ContentType: part.InlineData.MIMEType,
			}
		}
	}
	return nil
}
