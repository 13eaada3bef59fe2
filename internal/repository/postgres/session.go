package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"synapse/internal/domain"
	"synapse/internal/domain/models/chat"
	"synapse/internal/domain/repositories"
)

// PostgresSessionStore implements the SessionStore interface
type PostgresSessionStore struct {
	pool   *pgxpool.Pool
	tx     repositories.TransactionManager
	logger *slog.Logger
}

// NewSessionStore creates a new PostgresSessionStore
func NewSessionStore(config *RepositoryConfig) repositories.SessionStore {
	return &PostgresSessionStore{
		pool:   config.Pool,
		tx:     NewTransactionManager(config.Pool, config.Logger),
		logger: config.Logger,
	}
}

// Create inserts the session and any messages it already holds
func (r *PostgresSessionStore) Create(ctx context.Context, session *chat.Session) error {
	return r.tx.ExecTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO chat_sessions (id, user_id, title, created_ms)
			VALUES ($1, $2, $3, $4)
		`
		executor := GetExecutor(ctx, r.pool)
		if _, err := executor.Exec(ctx, query, session.ID, session.UserID, session.Title, session.Timestamp); err != nil {
			if IsPgDuplicateError(err) {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("chat '%s' already exists", session.ID),
					ResourceType: "chat",
					ResourceID:   session.ID,
				}
			}
			return fmt.Errorf("create chat session: %w", err)
		}
		return r.insertMessages(ctx, session.ID, session.Messages)
	})
}

// Get retrieves a session with its messages in append order
func (r *PostgresSessionStore) Get(ctx context.Context, id, userID string) (*chat.Session, error) {
	query := `
		SELECT id, user_id, title, created_ms
		FROM chat_sessions
		WHERE id = $1 AND user_id = $2
	`

	var s chat.Session
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(&s.ID, &s.UserID, &s.Title, &s.Timestamp)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("chat '%s' not found", id)}
		}
		return nil, fmt.Errorf("get chat session: %w", err)
	}

	msgs, err := r.listMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Messages = msgs
	return &s, nil
}

// ListRecent returns the user's sessions, newest first
func (r *PostgresSessionStore) ListRecent(ctx context.Context, userID string, limit int) ([]chat.SessionSummary, error) {
	query := `
		SELECT id, title, created_ms
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY created_ms DESC, id
		LIMIT $2
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	summaries := []chat.SessionSummary{}
	for rows.Next() {
		var s chat.SessionSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat sessions: %w", err)
	}
	return summaries, nil
}

// AppendMessages adds messages at the end of the session
func (r *PostgresSessionStore) AppendMessages(ctx context.Context, sessionID string, msgs ...*chat.Message) error {
	return r.tx.ExecTx(ctx, func(ctx context.Context) error {
		return r.insertMessages(ctx, sessionID, msgs)
	})
}

// UpdateMessageAudio attaches a synthesized audio data URI to a message
func (r *PostgresSessionStore) UpdateMessageAudio(ctx context.Context, sessionID, messageID, audio string) error {
	query := `
		UPDATE chat_messages
		SET audio = $3
		WHERE session_id = $1 AND id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, sessionID, messageID, audio)
	if err != nil {
		return fmt.Errorf("update message audio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("message '%s' not found", messageID)}
	}
	return nil
}

// insertMessages relies on the BIGSERIAL seq column for ordering
func (r *PostgresSessionStore) insertMessages(ctx context.Context, sessionID string, msgs []*chat.Message) error {
	query := `
		INSERT INTO chat_messages (id, session_id, role, content, media, audio)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(ctx, r.pool)
	for _, m := range msgs {
		_, err := executor.Exec(ctx, query, m.ID, sessionID, string(m.Role), m.Content, m.Media, m.Audio)
		if err != nil {
			if IsPgForeignKeyError(err) {
				return &domain.NotFoundError{Message: fmt.Sprintf("chat '%s' not found", sessionID)}
			}
			if IsPgDuplicateError(err) {
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

func (r *PostgresSessionStore) listMessages(ctx context.Context, sessionID string) ([]*chat.Message, error) {
	query := `
		SELECT id, role, content, media, audio
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY seq
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	msgs := []*chat.Message{}
	for rows.Next() {
		var m chat.Message
		var role string
		if err := rows.Scan(&m.ID, &role, &m.Content, &m.Media, &m.Audio); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = chat.Role(role)
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}
