package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"synapse/internal/config"
	"synapse/internal/domain"
	chatModels "synapse/internal/domain/models/chat"
	"synapse/internal/domain/repositories"
	domainllm "synapse/internal/domain/services/llm"
)

// RecentChatsLimit bounds ListChats.
const RecentChatsLimit = 50

// Service implements the ChatService interface
type Service struct {
	sessions repositories.SessionStore
	actions  domainllm.ActionService
	inFlight *inFlight
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates a new chat service
func NewService(
	sessions repositories.SessionStore,
	actions domainllm.ActionService,
	logger *slog.Logger,
) *Service {
	return &Service{
		sessions: sessions,
		actions:  actions,
		inFlight: newInFlight(),
		now:      time.Now,
		logger:   logger,
	}
}

var _ domainllm.ChatService = (*Service)(nil)

// CreateChat creates an empty session titled after the first message
func (s *Service) CreateChat(ctx context.Context, req *domainllm.CreateChatRequest) (*chatModels.Session, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.FirstMessage, validation.Length(0, config.MaxMessageLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	title := strings.TrimSpace(req.FirstMessage)
	if title == "" {
		title = "New chat"
	}
	session := chatModels.NewSession(req.UserID, title, s.now())
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("chat created",
		"id", session.ID,
		"title", session.Title,
		"user_id", req.UserID,
	)

	session.Messages = []*chatModels.Message{chatModels.WelcomeMessage()}
	return session, nil
}

// GetChat retrieves a session, merging in a send that is still streaming
func (s *Service) GetChat(ctx context.Context, chatID, userID string) (*chatModels.Session, error) {
	session, err := s.sessions.Get(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	if active := s.inFlight.get(chatID); active != nil {
		seen := make(map[string]bool, len(session.Messages))
		for _, m := range session.Messages {
			seen[m.ID] = true
		}
		for _, m := range active.visibleMessages() {
			if !seen[m.ID] {
				session.Messages = append(session.Messages, m)
			}
		}
	}

	if len(session.Messages) == 0 {
		session.Messages = []*chatModels.Message{chatModels.WelcomeMessage()}
	}
	return session, nil
}

// ListChats returns the user's sessions, newest first
func (s *Service) ListChats(ctx context.Context, userID string) ([]chatModels.SessionSummary, error) {
	return s.sessions.ListRecent(ctx, userID, RecentChatsLimit)
}

// BeginSend validates the submission and claims the session's in-flight slot
func (s *Service) BeginSend(ctx context.Context, req *domainllm.SendMessageRequest) (domainllm.Send, error) {
	if err := s.validateSendRequest(req); err != nil {
		return nil, err
	}

	// Ownership check before claiming, so strangers get 404 rather than 409
	if _, err := s.sessions.Get(ctx, req.ChatID, req.UserID); err != nil {
		return nil, err
	}

	snd := &send{
		svc:       s,
		req:       req,
		user:      chatModels.NewUserMessage(req.Text, req.Media),
		assistant: chatModels.NewAssistantPlaceholder(),
		state:     StateIdle,
	}
	if !s.inFlight.claim(req.ChatID, snd) {
		s.logger.Warn("rejected concurrent send", "chat_id", req.ChatID, "user_id", req.UserID)
		return nil, fmt.Errorf("chat '%s': %w", req.ChatID, domain.ErrSendInFlight)
	}
	snd.transition(StateSending)

	s.logger.Debug("send accepted",
		"chat_id", req.ChatID,
		"mode", req.Mode,
		"language", req.Language,
		"has_media", req.Media != nil,
	)
	return snd, nil
}

// GenerateAudio synthesizes an assistant message and attaches the audio in place
func (s *Service) GenerateAudio(ctx context.Context, chatID, userID, messageID string) (*chatModels.Message, error) {
	session, err := s.GetChat(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	msg := session.FindMessage(messageID)
	if msg == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("message '%s' not found", messageID)}
	}
	if msg.Role != chatModels.RoleAssistant {
		return nil, &domain.ValidationError{Message: "audio can only be generated for assistant messages"}
	}
	if active := s.inFlight.get(chatID); active != nil && active.AssistantMessageID() == messageID {
		return nil, &domain.ValidationError{Message: "message is still being generated"}
	}

	result := s.actions.SynthesizeAudio(ctx, msg.Content)
	if !result.Success {
		return nil, &domain.AudioFailedError{Message: result.Error, Err: result.Cause}
	}

	audio := result.Response.Audio
	// The welcome message is never stored; its audio lives only in the response
	if !msg.IsWelcome() {
		if err := s.sessions.UpdateMessageAudio(ctx, chatID, messageID, audio); err != nil {
			return nil, err
		}
	}
	msg.Audio = &audio

	s.logger.Info("audio attached", "chat_id", chatID, "message_id", messageID)
	return msg, nil
}

func (s *Service) validateSendRequest(req *domainllm.SendMessageRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ChatID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Mode, validation.Required, validation.In(chatModels.ModeValues()...)),
		validation.Field(&req.Language, validation.Required, validation.In(chatModels.LanguageValues()...)),
		validation.Field(&req.Text, validation.Length(0, config.MaxMessageLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hasMedia := req.Media != nil && *req.Media != ""
	if strings.TrimSpace(req.Text) == "" && !hasMedia {
		return fmt.Errorf("%w: text or media is required", domain.ErrValidation)
	}
	if !hasMedia {
		req.Media = nil
	}
	return nil
}
