package sse

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := w.WriteEvent("delta", map[string]string{"text": "Sal"}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if err := w.WriteKeepAlive(); err != nil {
		t.Fatalf("WriteKeepAlive: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type %q", ct)
	}
	want := "event: delta\ndata: {\"text\":\"Sal\"}\n\n: keepalive\n\n"
	if rec.Body.String() != want {
		t.Errorf("body %q, want %q", rec.Body.String(), want)
	}

	w.Close()
	if err := w.WriteEvent("done", nil); err == nil {
		t.Error("writes after Close should fail")
	}
}

type countingWriter struct {
	mu sync.Mutex
	n  int
}

func (c *countingWriter) WriteKeepAlive() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return nil
}

func (c *countingWriter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestTickerKeepAlive(t *testing.T) {
	cw := &countingWriter{}
	k := NewTickerKeepAlive(5 * time.Millisecond)
	stopped := k.Start(cw, slog.New(slog.NewTextHandler(io.Discard, nil)))

	deadline := time.After(2 * time.Second)
	for cw.count() < 2 {
		select {
		case <-deadline:
			t.Fatal("keep-alive never fired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	k.Stop()
	k.Stop()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("keep-alive did not stop")
	}
}

// nonFlusher hides the recorder's Flush method
type nonFlusher struct {
	http.ResponseWriter
}

func TestWriter_RequiresFlusher(t *testing.T) {
	if _, err := NewWriter(nonFlusher{httptest.NewRecorder()}); err != ErrStreamingUnsupported {
		t.Errorf("expected ErrStreamingUnsupported, got %v", err)
	}
}
