package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	chatModels "synapse/internal/domain/models/chat"
	domainllm "synapse/internal/domain/services/llm"
)

// send is one accepted submission, driven from sending to settled or failed.
type send struct {
	svc       *Service
	req       *domainllm.SendMessageRequest
	user      *chatModels.Message
	assistant *chatModels.Message

	mu    sync.Mutex // guards state and assistant.Content for concurrent GetChat readers
	state State
	ran   bool
}

func (s *send) UserMessage() *chatModels.Message { return s.user }

func (s *send) AssistantMessageID() string { return s.assistant.ID }

// State returns the current lifecycle state.
func (s *send) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run streams the reply into the placeholder and persists the exchange.
func (s *send) Run(ctx context.Context, obs domainllm.SendObserver) (*chatModels.Message, error) {
	s.mu.Lock()
	if s.ran {
		s.mu.Unlock()
		return nil, errors.New("send already ran")
	}
	s.ran = true
	s.mu.Unlock()

	defer s.svc.inFlight.release(s.req.ChatID, s)

	obs.OnStart(&chatModels.MessageStartEvent{
		ChatID:             s.req.ChatID,
		UserMessage:        s.user,
		AssistantMessageID: s.assistant.ID,
	})

	result := s.svc.actions.Invoke(ctx, &domainllm.InvokeRequest{
		Mode:     s.req.Mode,
		Text:     s.req.Text,
		Language: s.req.Language,
		Media:    s.req.Media,
	})
	if !result.Success {
		return nil, s.fail(ctx, obs, result.Error)
	}

	stream := result.Response.Content
	for {
		frag, ok := stream.Next(ctx)
		if !ok {
			break
		}
		content := s.apply(frag)
		obs.OnDelta(&chatModels.MessageDeltaEvent{
			AssistantMessageID: s.assistant.ID,
			Delta:              frag,
			Content:            content,
		})
	}
	if err := stream.Err(); err != nil {
		s.svc.logger.Error("stream failed mid-reply",
			"chat_id", s.req.ChatID,
			"message_id", s.assistant.ID,
			"error", err,
		)
		return nil, s.fail(ctx, obs, err.Error())
	}

	complete := &chatModels.MessageCompleteEvent{ChatID: s.req.ChatID, Model: result.Response.Model}
	if meta := stream.Metadata(); meta != nil {
		if meta.Model != "" {
			complete.Model = meta.Model
		}
		complete.FinishReason = meta.FinishReason
	}

	settled := s.snapshotAssistant()
	if err := s.svc.sessions.AppendMessages(ctx, s.req.ChatID, s.user, settled); err != nil {
		s.svc.logger.Error("failed to persist messages",
			"chat_id", s.req.ChatID,
			"error", err,
		)
		return nil, s.fail(ctx, obs, "failed to save chat")
	}

	s.transition(StateSettled)
	s.svc.logger.Info("message settled",
		"chat_id", s.req.ChatID,
		"message_id", settled.ID,
		"content_length", len(settled.Content),
		"model", complete.Model,
		"finish_reason", complete.FinishReason,
	)
	complete.Message = settled
	obs.OnComplete(complete)
	return settled, nil
}

// apply appends a fragment to the running total and returns the total.
func (s *send) apply(frag string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSending {
		s.state = StateStreaming
	}
	s.assistant.Content += frag
	return s.assistant.Content
}

// fail retracts the placeholder. The user message is kept, as the user saw it sent.
func (s *send) fail(ctx context.Context, obs domainllm.SendObserver, reason string) error {
	s.transition(StateFailed)

	if err := s.svc.sessions.AppendMessages(ctx, s.req.ChatID, s.user); err != nil {
		s.svc.logger.Warn("failed to persist user message after failed send",
			"chat_id", s.req.ChatID,
			"error", err,
		)
	}

	obs.OnError(&chatModels.MessageErrorEvent{
		ChatID:             s.req.ChatID,
		AssistantMessageID: s.assistant.ID,
		Error:              reason,
	})
	return fmt.Errorf("send failed: %s", reason)
}

func (s *send) transition(to State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !canTransition(s.state, to) {
		s.svc.logger.Warn("invalid send state transition", "from", s.state, "to", to)
		return
	}
	s.state = to
}

func (s *send) snapshotAssistant() *chatModels.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := *s.assistant
	return &out
}

// visibleMessages returns what a reader should see for this send right now.
func (s *send) visibleMessages() []*chatModels.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := *s.user
	switch s.state {
	case StateSending, StateStreaming:
		assistant := *s.assistant
		return []*chatModels.Message{&user, &assistant}
	default:
		return nil
	}
}
