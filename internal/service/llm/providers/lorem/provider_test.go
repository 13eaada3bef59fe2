package lorem

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	domainllm "synapse/internal/domain/services/llm"
	"synapse/internal/utils"
)

func newTestProvider() *Provider {
	p := NewProvider()
	p.delay = func(string) time.Duration { return 0 }
	return p
}

func TestStreamResponse(t *testing.T) {
	p := newTestProvider()
	events, err := p.StreamResponse(context.Background(), &domainllm.GenerateRequest{Model: "lorem-fast", Text: "hi"})
	if err != nil {
		t.Fatalf("StreamResponse: %v", err)
	}

	text, err := domainllm.NewTextStream(events).Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if len(strings.Fields(text)) == 0 {
		t.Error("expected lorem text")
	}
}

func TestStreamResponse_Metadata(t *testing.T) {
	p := newTestProvider()
	events, _ := p.StreamResponse(context.Background(), &domainllm.GenerateRequest{Model: "lorem-fast"})

	var last domainllm.StreamEvent
	for ev := range events {
		last = ev
	}
	if last.Metadata == nil || last.Metadata.Model != "lorem-fast" || last.Metadata.FinishReason != "STOP" {
		t.Errorf("expected trailing metadata, got %+v", last)
	}
}

func TestStreamResponse_SimulatedFailure(t *testing.T) {
	p := newTestProvider()
	events, _ := p.StreamResponse(context.Background(), &domainllm.GenerateRequest{Model: "lorem-fail"})

	stream := domainllm.NewTextStream(events)
	partial, err := stream.Collect(context.Background())
	if err == nil {
		t.Fatal("expected a mid-stream failure")
	}
	if partial == "" {
		t.Error("fragments before the failure should be delivered")
	}
}

func TestStreamResponse_MentionsAttachment(t *testing.T) {
	p := newTestProvider()
	events, _ := p.StreamResponse(context.Background(), &domainllm.GenerateRequest{
		Model:      "lorem-fast",
		Attachment: &domainllm.Attachment{MIMEType: "image/jpeg", Data: "AAAA"},
	})
	text, _ := domainllm.NewTextStream(events).Collect(context.Background())
	if !strings.HasPrefix(text, "[image/jpeg]") {
		t.Errorf("expected attachment marker, got %q", text)
	}
}

func TestSynthesize(t *testing.T) {
	p := NewProvider()

	media, err := p.Synthesize(context.Background(), &domainllm.SpeechRequest{Text: "one two three"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if media == nil {
		t.Fatal("expected media")
	}
	uri, ok := utils.ParseDataURI(media.URL)
	if !ok {
		t.Fatalf("not a data URI: %.40s", media.URL)
	}
	pcm, err := base64.StdEncoding.DecodeString(uri.Data)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	// 3 words * 150ms * 24000Hz * 2 bytes
	if want := 3 * 3600 * 2; len(pcm) != want {
		t.Errorf("expected %d PCM bytes, got %d", want, len(pcm))
	}

	media, err = p.Synthesize(context.Background(), &domainllm.SpeechRequest{Text: "   "})
	if err != nil || media != nil {
		t.Errorf("empty text should return no media, got %v, %v", media, err)
	}
}

func TestGetStreamDelay(t *testing.T) {
	tests := map[string]time.Duration{
		"lorem-slow":   500 * time.Millisecond,
		"lorem-fast":   33 * time.Millisecond,
		"lorem-medium": 100 * time.Millisecond,
	}
	for model, want := range tests {
		if got := getStreamDelay(model); got != want {
			t.Errorf("%s: got %v, want %v", model, got, want)
		}
	}
}
