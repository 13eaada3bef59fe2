package llm

import (
	"context"

	"synapse/internal/domain/models/chat"
)

// ChatService manages chat sessions and drives sends through the action layer.
type ChatService interface {
	// CreateChat creates an empty session titled after the first message
	CreateChat(ctx context.Context, req *CreateChatRequest) (*chat.Session, error)

	// GetChat retrieves a session. An empty session carries the welcome message.
	// Messages of a send that is still streaming are included.
	GetChat(ctx context.Context, chatID, userID string) (*chat.Session, error)

	// ListChats returns the user's sessions, newest first
	ListChats(ctx context.Context, userID string) ([]chat.SessionSummary, error)

	// BeginSend validates a submission and claims the session's in-flight slot.
	// Returns domain.ErrSendInFlight if another send has not settled yet.
	// The caller must call Run on the returned Send exactly once.
	BeginSend(ctx context.Context, req *SendMessageRequest) (Send, error)

	// GenerateAudio synthesizes an assistant message and attaches the audio to it
	GenerateAudio(ctx context.Context, chatID, userID, messageID string) (*chat.Message, error)
}

// Send is one accepted submission.
type Send interface {
	// UserMessage is the message appended on submit
	UserMessage() *chat.Message

	// AssistantMessageID identifies the placeholder being streamed into
	AssistantMessageID() string

	// Run streams the reply, reporting progress to obs, and persists both
	// messages on success. On failure the placeholder is dropped and obs.OnError is called.
	Run(ctx context.Context, obs SendObserver) (*chat.Message, error)
}

// SendObserver receives progress of a Send. Calls happen on the Run goroutine, in order.
type SendObserver interface {
	OnStart(ev *chat.MessageStartEvent)
	OnDelta(ev *chat.MessageDeltaEvent)
	OnComplete(ev *chat.MessageCompleteEvent)
	OnError(ev *chat.MessageErrorEvent)
}

// CreateChatRequest is the DTO for creating a new chat
type CreateChatRequest struct {
	UserID       string `json:"-"` // Set by handler from auth context
	FirstMessage string `json:"first_message"`
}

// SendMessageRequest is the DTO for sending a message
type SendMessageRequest struct {
	ChatID   string        `json:"-"`
	UserID   string        `json:"-"`
	Text     string        `json:"text"`
	Media    *string       `json:"media,omitempty"`
	Mode     chat.Mode     `json:"mode"`
	Language chat.Language `json:"language"`
}
