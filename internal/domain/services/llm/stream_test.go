package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fragmentStream(fragments ...string) *TextStream {
	ch := make(chan StreamEvent, len(fragments))
	for _, f := range fragments {
		ch <- StreamEvent{Delta: f}
	}
	close(ch)
	return NewTextStream(ch)
}

func TestTextStream_CollectPreservesOrder(t *testing.T) {
	s := fragmentStream("Assalam", "-o-", "", "Alaikum")
	if err := s.Prime(context.Background()); err != nil {
		t.Fatalf("Prime: %v", err)
	}

	got, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got != "Assalam-o-Alaikum" {
		t.Errorf("got %q", got)
	}

	if _, ok := s.Next(context.Background()); ok {
		t.Error("stream must not restart after it ended")
	}
}

func TestTextStream_PrimeReturnsEarlyFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	ch := make(chan StreamEvent, 1)
	ch <- StreamEvent{Error: boom}
	close(ch)

	s := NewTextStream(ch)
	if err := s.Prime(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected early failure, got %v", err)
	}
}

func TestTextStream_MidStreamFailureKeepsDeliveredFragments(t *testing.T) {
	boom := errors.New("connection reset")
	ch := make(chan StreamEvent, 3)
	ch <- StreamEvent{Delta: "one "}
	ch <- StreamEvent{Delta: "two "}
	ch <- StreamEvent{Error: boom}
	close(ch)

	s := NewTextStream(ch)
	if err := s.Prime(context.Background()); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	got, err := s.Collect(context.Background())
	if got != "one two " {
		t.Errorf("expected delivered fragments, got %q", got)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected mid-stream error, got %v", err)
	}
}

func TestTextStream_MetadataIsRecorded(t *testing.T) {
	ch := make(chan StreamEvent, 2)
	ch <- StreamEvent{Delta: "hi"}
	ch <- StreamEvent{Metadata: &StreamMetadata{Model: "m", FinishReason: "STOP"}}
	close(ch)

	s := NewTextStream(ch)
	if _, err := s.Collect(context.Background()); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if s.Metadata() == nil || s.Metadata().FinishReason != "STOP" {
		t.Errorf("expected metadata, got %+v", s.Metadata())
	}
}

func TestTextStream_ContextCancel(t *testing.T) {
	ch := make(chan StreamEvent)
	s := NewTextStream(ch)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, ok := s.Next(ctx); ok {
		t.Fatal("expected no fragment")
	}
	if !errors.Is(s.Err(), context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", s.Err())
	}
}

func TestTextStream_EmptyStream(t *testing.T) {
	s := fragmentStream()
	if err := s.Prime(context.Background()); err != nil {
		t.Fatalf("empty stream is not a failure: %v", err)
	}
	got, err := s.Collect(context.Background())
	if got != "" || err != nil {
		t.Errorf("expected empty result, got %q, %v", got, err)
	}
}
