package sse

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"synapse/internal/domain/models/chat"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// Writer serializes SSE events and keep-alive comments onto one response.
// Events come from the send goroutine and keep-alives from the ticker, so writes are mutex guarded.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// NewWriter sets the SSE headers and writes the 200 status
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}, nil
}

// WriteEvent writes one named event with a JSON payload and flushes
func (s *Writer) WriteEvent(eventType string, data interface{}) error {
	frame, err := chat.FormatSSE(eventType, data)
	if err != nil {
		return err
	}
	return s.write(frame)
}

// WriteKeepAlive writes an SSE comment, which clients ignore
func (s *Writer) WriteKeepAlive() error {
	return s.write(": keepalive\n\n")
}

// Close makes later writes fail instead of touching a finished response
func (s *Writer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Writer) write(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("sse writer closed")
	}
	if _, err := fmt.Fprint(s.w, frame); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	s.flusher.Flush()
	return nil
}
