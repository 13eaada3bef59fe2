package llm

import (
	"context"
	"strings"
)

// TextStream is a lazy, finite, single-consumer sequence of text fragments.
// Fragments come out in arrival order and the stream cannot be restarted.
// It is not safe for concurrent use.
type TextStream struct {
	events  <-chan StreamEvent
	pending []string
	meta    *StreamMetadata
	err     error
	done    bool
}

// NewTextStream wraps a backend event channel.
func NewTextStream(events <-chan StreamEvent) *TextStream {
	return &TextStream{events: events}
}

// Prime blocks until the first fragment arrives, the stream ends, or it fails.
// A failure before the first fragment is returned here instead of from Err.
func (s *TextStream) Prime(ctx context.Context) error {
	frag, ok := s.read(ctx)
	if ok {
		s.pending = append(s.pending, frag)
		return nil
	}
	err := s.err
	s.err = nil
	return err
}

// Next returns the next non-empty fragment. ok is false once the stream is over;
// call Err to see whether it ended with a failure.
func (s *TextStream) Next(ctx context.Context) (fragment string, ok bool) {
	if len(s.pending) > 0 {
		frag := s.pending[0]
		s.pending = s.pending[1:]
		return frag, true
	}
	return s.read(ctx)
}

// Err reports the mid-stream failure, if any. Fragments already returned stay valid.
func (s *TextStream) Err() error {
	return s.err
}

// Metadata returns the trailing metadata, once the stream has ended.
func (s *TextStream) Metadata() *StreamMetadata {
	return s.meta
}

// Collect drains the stream and concatenates the remaining fragments.
func (s *TextStream) Collect(ctx context.Context) (string, error) {
	var sb strings.Builder
	for {
		frag, ok := s.Next(ctx)
		if !ok {
			break
		}
		sb.WriteString(frag)
	}
	return sb.String(), s.err
}

func (s *TextStream) read(ctx context.Context) (string, bool) {
	for !s.done {
		select {
		case <-ctx.Done():
			s.finish(ctx.Err())
		case ev, open := <-s.events:
			switch {
			case !open:
				s.finish(nil)
			case ev.Error != nil:
				s.finish(ev.Error)
			case ev.Metadata != nil:
				s.meta = ev.Metadata
			case ev.Delta != "":
				return ev.Delta, true
			}
		}
	}
	return "", false
}

func (s *TextStream) finish(err error) {
	s.done = true
	s.err = err
}

