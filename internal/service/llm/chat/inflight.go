package chat

import "sync"

// inFlight tracks the one active send per session.
// HTTP handlers run on many goroutines, so the registry is mutex guarded.
type inFlight struct {
	mu    sync.Mutex
	sends map[string]*send
}

func newInFlight() *inFlight {
	return &inFlight{sends: make(map[string]*send)}
}

// claim registers s for sessionID unless another send holds it.
func (f *inFlight) claim(sessionID string, s *send) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.sends[sessionID]; busy {
		return false
	}
	f.sends[sessionID] = s
	return true
}

// release frees sessionID if s still holds it.
func (f *inFlight) release(sessionID string, s *send) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sends[sessionID] == s {
		delete(f.sends, sessionID)
	}
}

func (f *inFlight) get(sessionID string) *send {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sends[sessionID]
}
