package chat

import (
	"time"

	"github.com/google/uuid"
)

// TitleLength is how many characters of the first message make a chat title.
const TitleLength = 30

// Session is an ordered list of messages with metadata.
type Session struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Timestamp int64      `json:"timestamp" db:"timestamp"` // creation time, unix milliseconds
	Messages  []*Message `json:"messages"`
}

// SessionSummary is a session without its messages, used for listings.
type SessionSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"`
}

// NewSession creates an empty session titled after its first message.
func NewSession(userID, firstMessage string, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     DeriveTitle(firstMessage),
		Timestamp: now.UnixMilli(),
		Messages:  []*Message{},
	}
}

// DeriveTitle truncates the first message to TitleLength characters,
// adding "..." when something was cut.
func DeriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= TitleLength {
		return firstMessage
	}
	return string(runes[:TitleLength]) + "..."
}

// Summary drops the messages.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{ID: s.ID, Title: s.Title, Timestamp: s.Timestamp}
}

// FindMessage returns the message with the given id, or nil.
func (s *Session) FindMessage(id string) *Message {
	for _, m := range s.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}
