package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"synapse/internal/domain"
	"synapse/internal/domain/models/chat"
	"synapse/internal/domain/repositories"
)

// SessionStore keeps sessions in process memory. Data is lost on restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

// NewSessionStore creates an empty in-memory session store
func NewSessionStore() repositories.SessionStore {
	return &SessionStore{sessions: make(map[string]*chat.Session)}
}

func (s *SessionStore) Create(ctx context.Context, session *chat.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; ok {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("chat '%s' already exists", session.ID),
			ResourceType: "chat",
			ResourceID:   session.ID,
		}
	}
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id, userID string) (*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || session.UserID != userID {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("chat '%s' not found", id)}
	}
	return cloneSession(session), nil
}

func (s *SessionStore) ListRecent(ctx context.Context, userID string, limit int) ([]chat.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []chat.SessionSummary{}
	for _, session := range s.sessions {
		if session.UserID == userID {
			summaries = append(summaries, session.Summary())
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Timestamp != summaries[j].Timestamp {
			return summaries[i].Timestamp > summaries[j].Timestamp
		}
		return summaries[i].ID < summaries[j].ID
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (s *SessionStore) AppendMessages(ctx context.Context, sessionID string, msgs ...*chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("chat '%s' not found", sessionID)}
	}
	for _, m := range msgs {
		if session.FindMessage(m.ID) != nil {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("message '%s' already exists", m.ID),
				ResourceType: "message",
				ResourceID:   m.ID,
			}
		}
	}
	for _, m := range msgs {
		session.Messages = append(session.Messages, cloneMessage(m))
	}
	return nil
}

func (s *SessionStore) UpdateMessageAudio(ctx context.Context, sessionID, messageID, audio string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("chat '%s' not found", sessionID)}
	}
	m := session.FindMessage(messageID)
	if m == nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("message '%s' not found", messageID)}
	}
	m.Audio = &audio
	return nil
}

func cloneSession(s *chat.Session) *chat.Session {
	out := *s
	out.Messages = make([]*chat.Message, 0, len(s.Messages))
	for _, m := range s.Messages {
		out.Messages = append(out.Messages, cloneMessage(m))
	}
	return &out
}

func cloneMessage(m *chat.Message) *chat.Message {
	out := *m
	return &out
}
