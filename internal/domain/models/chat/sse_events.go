package chat

import (
	"encoding/json"
	"fmt"
)

// SSE event type constants
const (
	SSEEventMessageStart    = "message_start"    // User message appended, assistant placeholder created
	SSEEventMessageDelta    = "message_delta"    // One fragment plus the running content
	SSEEventMessageComplete = "message_complete" // Stream ended and both messages were persisted
	SSEEventMessageError    = "message_error"    // Send failed, placeholder retracted

	SSEEventDelta = "delta" // Raw fragment from /api/actions/invoke
	SSEEventDone  = "done"  // End of /api/actions/invoke stream
)

// MessageStartEvent signals that a send was accepted.
type MessageStartEvent struct {
	ChatID             string   `json:"chat_id"`
	UserMessage        *Message `json:"user_message"`
	AssistantMessageID string   `json:"assistant_message_id"`
}

// MessageDeltaEvent carries one fragment. Content is everything received so far.
type MessageDeltaEvent struct {
	AssistantMessageID string `json:"assistant_message_id"`
	Delta              string `json:"delta"`
	Content            string `json:"content"`
}

// MessageCompleteEvent carries the settled assistant message.
type MessageCompleteEvent struct {
	ChatID       string   `json:"chat_id"`
	Message      *Message `json:"message"`
	Model        string   `json:"model,omitempty"`         // model version reported by the backend
	FinishReason string   `json:"finish_reason,omitempty"` // e.g. STOP, MAX_TOKENS
}

// MessageErrorEvent signals a failed send. The placeholder is gone.
type MessageErrorEvent struct {
	ChatID             string `json:"chat_id"`
	AssistantMessageID string `json:"assistant_message_id"`
	Error              string `json:"error"`
}

// DeltaEvent is one fragment of a raw action stream.
type DeltaEvent struct {
	Text string `json:"text"`
}

// DoneEvent ends a raw action stream.
type DoneEvent struct {
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	Model        string `json:"model,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// FormatSSE formats an SSE event for transmission
// Returns a string in SSE format:
//
//	event: event_name
//	data: {"field": "value"}
//	\n
func FormatSSE(eventType string, data interface{}) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal SSE event data: %w", err)
	}

	return fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, string(jsonData)), nil
}
