package repositories

import (
	"context"

	"synapse/internal/domain/models/chat"
)

// SessionStore persists chat sessions keyed by session id.
// Implementations must keep message order as appended.
type SessionStore interface {
	// Create stores a new session (with any messages it already holds)
	Create(ctx context.Context, session *chat.Session) error

	// Get retrieves a session with its messages
	// Returns domain.ErrNotFound if the session does not exist or belongs to another user
	Get(ctx context.Context, id, userID string) (*chat.Session, error)

	// ListRecent returns the user's sessions without messages, newest first
	ListRecent(ctx context.Context, userID string, limit int) ([]chat.SessionSummary, error)

	// AppendMessages adds messages to the end of a session
	AppendMessages(ctx context.Context, sessionID string, msgs ...*chat.Message) error

	// UpdateMessageAudio attaches a synthesized audio data URI to one message
	UpdateMessageAudio(ctx context.Context, sessionID, messageID, audio string) error
}
