package chat

import "github.com/google/uuid"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation.
// Content of an assistant message only grows while its send is streaming.
type Message struct {
	ID      string  `json:"id" db:"id"`
	Role    Role    `json:"role" db:"role"`
	Content string  `json:"content" db:"content"`
	Media   *string `json:"media,omitempty" db:"media"` // data URI for images
	Audio   *string `json:"audio,omitempty" db:"audio"` // data URI for synthesized speech
}

// NewUserMessage creates a user message with a fresh id.
func NewUserMessage(content string, media *string) *Message {
	return &Message{
		ID:      uuid.NewString(),
		Role:    RoleUser,
		Content: content,
		Media:   media,
	}
}

// NewAssistantPlaceholder creates the empty assistant message a send streams into.
func NewAssistantPlaceholder() *Message {
	return &Message{
		ID:   uuid.NewString(),
		Role: RoleAssistant,
	}
}

// WelcomeMessageID is the fixed id of the greeting shown in an empty chat.
const WelcomeMessageID = "welcome"

// WelcomeText greets the user before the first send.
const WelcomeText = `Assalam-o-Alaikum! Hello there!

I am SYNAPSE, Pakistan's first GPT-powered AI assistant, created by Muhammad Jahanzaib Azam. My creator has asked me to encourage you to help the people of Palestine.

How can I assist you today, keeping our unique Pakistani context and culture in mind? Feel free to ask anything!`

// WelcomeMessage returns the greeting as an assistant message.
func WelcomeMessage() *Message {
	return &Message{
		ID:      WelcomeMessageID,
		Role:    RoleAssistant,
		Content: WelcomeText,
	}
}

// IsWelcome reports whether m is the greeting rather than a real reply.
func (m *Message) IsWelcome() bool {
	return m.ID == WelcomeMessageID && m.Role == RoleAssistant && m.Content == WelcomeText
}
