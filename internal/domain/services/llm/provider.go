package llm

import "context"

// GenerationBackend is a generative-AI service that streams text deltas.
// Implementations live under internal/service/llm/providers.
type GenerationBackend interface {
	// StreamResponse starts a generation and returns a channel of events.
	// The channel is closed when the backend signals completion or fails.
	// Implementations must stop sending once ctx is done.
	StreamResponse(ctx context.Context, req *GenerateRequest) (<-chan StreamEvent, error)

	// Name returns the backend name (e.g., "gemini", "lorem")
	Name() string
}

// SpeechBackend is a text-to-speech service.
type SpeechBackend interface {
	// Synthesize returns one media object holding a base64 data URI of raw PCM,
	// or nil when the backend answered without audio.
	Synthesize(ctx context.Context, req *SpeechRequest) (*Media, error)
}

// GenerateRequest contains the parameters for one generation call.
type GenerateRequest struct {
	// Model is the backend model identifier (e.g., "gemini-2.5-flash")
	Model string

	// SystemPrompt is sent as the system instruction
	SystemPrompt string

	// Text is the user prompt. May be empty when Attachment is set.
	Text string

	// Attachment is optional inline media
	Attachment *Attachment

	// Safety is applied on every call
	Safety []SafetySetting
}

// Attachment is typed inline media parsed from a data URI.
type Attachment struct {
	MIMEType string
	Data     string // base64 payload, passed through undecoded
}

// HarmCategory names a content-harm category understood by the backend.
type HarmCategory string

const (
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
)

// HarmThreshold names a blocking threshold.
type HarmThreshold string

const BlockMediumAndAbove HarmThreshold = "BLOCK_MEDIUM_AND_ABOVE"

// SafetySetting pairs a category with its threshold.
type SafetySetting struct {
	Category  HarmCategory
	Threshold HarmThreshold
}

// StreamEvent is one event from a GenerationBackend.
// Exactly one of the fields is set.
type StreamEvent struct {
	Delta    string
	Error    error
	Metadata *StreamMetadata
}

// StreamMetadata is sent once, after the last delta.
type StreamMetadata struct {
	Model        string
	FinishReason string
}

// SpeechRequest contains the parameters for one synthesis call.
type SpeechRequest struct {
	Model string
	Text  string
	Voice string // empty = backend default
}

// Media is a media object returned by a backend.
type Media struct {
	URL         string // data URI
	ContentType string
}
