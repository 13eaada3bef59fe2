package llm

import (
	"context"

	"synapse/internal/domain/models/chat"
)

// ActionService is the request/response facade over the generation and speech bridges.
// It never returns an error: every failure is folded into the result.
type ActionService interface {
	// Invoke builds the system prompt and starts a generation
	Invoke(ctx context.Context, req *InvokeRequest) *InvokeResult

	// SynthesizeAudio turns text into a WAV data URI
	SynthesizeAudio(ctx context.Context, text string) *AudioResult
}

// InvokeRequest is the input of ActionService.Invoke.
type InvokeRequest struct {
	Mode     chat.Mode     `json:"mode"`
	Text     string        `json:"text"`
	Language chat.Language `json:"language"`
	Media    *string       `json:"media,omitempty"` // data URI
}

// InvokeResult is either {success:true, response} or {success:false, error}.
type InvokeResult struct {
	Success  bool            `json:"success"`
	Response *InvokeResponse `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// InvokeResponse holds the started stream.
type InvokeResponse struct {
	Content *TextStream `json:"-"`
	Model   string      `json:"model"`
}

// AudioResult is either {success:true, response} or {success:false, error}.
type AudioResult struct {
	Success  bool           `json:"success"`
	Response *AudioResponse `json:"response,omitempty"`
	Error    string         `json:"error,omitempty"`
	Cause    error          `json:"-"` // original failure, for errors.Is
}

// AudioResponse holds the synthesized audio.
type AudioResponse struct {
	Audio string `json:"audio"` // data:audio/wav;base64,...
}
