package lorem

import (
	"context"
	"encoding/binary"
	"math"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	domainllm "synapse/internal/domain/services/llm"
	"synapse/internal/utils"
)

// Provider is a mock backend that generates lorem ipsum text and a short tone for speech.
// Used for testing and development without requiring real API keys.
type Provider struct {
	generator *loremgen.Lorem
	delay     func(model string) time.Duration
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
		delay:     getStreamDelay,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// getStreamDelay returns the delay between words based on the model name.
// - lorem-slow: 2 words/second (500ms per word)
// - lorem-fast: 30 words/second (33ms per word)
// - default: 10 words/second
func getStreamDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 500 * time.Millisecond
	}
	if strings.Contains(model, "fast") {
		return 33 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// StreamResponse streams a lorem ipsum paragraph word by word.
// Models containing "fail" emit an error halfway through, for exercising failure paths.
func (p *Provider) StreamResponse(ctx context.Context, req *domainllm.GenerateRequest) (<-chan domainllm.StreamEvent, error) {
	words := strings.Fields(p.generator.Paragraph(2, 4))
	if req.Attachment != nil {
		words = append([]string{"[" + req.Attachment.MIMEType + "]"}, words...)
	}
	failAt := -1
	if strings.Contains(req.Model, "fail") {
		failAt = len(words) / 2
	}
	delay := p.delay(req.Model)

	eventChan := make(chan domainllm.StreamEvent, 10)

	go func() {
		defer close(eventChan)

		for i, word := range words {
			if i == failAt {
				eventChan <- domainllm.StreamEvent{Error: errLoremFailure}
				return
			}
			if i > 0 {
				word = " " + word
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
			select {
			case eventChan <- domainllm.StreamEvent{Delta: word}:
			case <-ctx.Done():
				return
			}
		}

		eventChan <- domainllm.StreamEvent{
			Metadata: &domainllm.StreamMetadata{Model: req.Model, FinishReason: "STOP"},
		}
	}()

	return eventChan, nil
}

const (
	toneSampleRate = 24000
	toneHz         = 440
	toneAmplitude  = 0.2
)

// Synthesize returns a short 16-bit mono PCM tone whose length grows with the text.
// Empty text returns no media.
func (p *Provider) Synthesize(ctx context.Context, req *domainllm.SpeechRequest) (*domainllm.Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := utils.CountWords(req.Text)
	if words == 0 {
		return nil, nil
	}

	// 150ms per word, capped at five seconds
	samples := min(words*toneSampleRate*15/100, toneSampleRate*5)
	pcm := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := toneAmplitude * math.Sin(2*math.Pi*toneHz*float64(i)/toneSampleRate)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v*math.MaxInt16)))
	}

	const mime = "audio/L16;codec=pcm;rate=24000"
	return &domainllm.Media{URL: utils.EncodeDataURI(mime, pcm), ContentType: mime}, nil
}
