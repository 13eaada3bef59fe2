package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"synapse/internal/domain"
	"synapse/internal/domain/models/chat"
	"synapse/internal/domain/repositories"
)

// SessionStore implements repositories.SessionStore on sqlite
type SessionStore struct {
	*DB
}

// NewSessionStore creates a session store over an open database
func NewSessionStore(db *DB) repositories.SessionStore {
	return &SessionStore{DB: db}
}

// Create inserts the session and any messages it already holds
func (s *SessionStore) Create(ctx context.Context, session *chat.Session) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chat_sessions (id, user_id, title, created_ms) VALUES (?, ?, ?, ?)`,
			session.ID, session.UserID, session.Title, session.Timestamp,
		)
		if err != nil {
			if isConstraintError(err, "UNIQUE") {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("chat '%s' already exists", session.ID),
					ResourceType: "chat",
					ResourceID:   session.ID,
				}
			}
			return fmt.Errorf("create chat session: %w", err)
		}
		return insertMessages(ctx, tx, session.ID, session.Messages)
	})
}

// Get retrieves a session with its messages in append order
func (s *SessionStore) Get(ctx context.Context, id, userID string) (*chat.Session, error) {
	var session chat.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_ms FROM chat_sessions WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&session.ID, &session.UserID, &session.Title, &session.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("chat '%s' not found", id)}
		}
		return nil, fmt.Errorf("get chat session: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, media, audio FROM chat_messages WHERE session_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	session.Messages = []*chat.Message{}
	for rows.Next() {
		var m chat.Message
		var role string
		var media, audio sql.NullString
		if err := rows.Scan(&m.ID, &role, &m.Content, &media, &audio); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = chat.Role(role)
		m.Media = nullableString(media)
		m.Audio = nullableString(audio)
		session.Messages = append(session.Messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return &session, nil
}

// ListRecent returns the user's sessions, newest first
func (s *SessionStore) ListRecent(ctx context.Context, userID string, limit int) ([]chat.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_ms FROM chat_sessions WHERE user_id = ? ORDER BY created_ms DESC, id LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	summaries := []chat.SessionSummary{}
	for rows.Next() {
		var sum chat.SessionSummary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// AppendMessages adds messages at the end of the session
func (s *SessionStore) AppendMessages(ctx context.Context, sessionID string, msgs ...*chat.Message) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertMessages(ctx, tx, sessionID, msgs)
	})
}

// UpdateMessageAudio attaches a synthesized audio data URI to a message
func (s *SessionStore) UpdateMessageAudio(ctx context.Context, sessionID, messageID, audio string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chat_messages SET audio = ? WHERE session_id = ? AND id = ?`,
		audio, sessionID, messageID,
	)
	if err != nil {
		return fmt.Errorf("update message audio: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("message '%s' not found", messageID)}
	}
	return nil
}

func insertMessages(ctx context.Context, tx *sql.Tx, sessionID string, msgs []*chat.Message) error {
	for _, m := range msgs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chat_messages (id, session_id, role, content, media, audio) VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID, sessionID, string(m.Role), m.Content, m.Media, m.Audio,
		)
		if err != nil {
			if isConstraintError(err, "FOREIGN KEY") {
				return &domain.NotFoundError{Message: fmt.Sprintf("chat '%s' not found", sessionID)}
			}
			if isConstraintError(err, "UNIQUE") {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("message '%s' already exists", m.ID),
					ResourceType: "message",
					ResourceID:   m.ID,
				}
			}
			return fmt.Errorf("insert message: %w", err)
		}
	}
	return nil
}

// isConstraintError matches sqlite constraint failures by message,
// e.g. "constraint failed: FOREIGN KEY constraint failed (787)".
func isConstraintError(err error, kind string) bool {
	return err != nil && strings.Contains(err.Error(), kind+" constraint failed")
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
