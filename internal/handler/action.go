package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"synapse/internal/config"
	"synapse/internal/domain"
	"synapse/internal/domain/models/chat"
	llmSvc "synapse/internal/domain/services/llm"
	"synapse/internal/handler/sse"
	"synapse/internal/httputil"
)

// ActionHandler exposes the action layer directly, without sessions
type ActionHandler struct {
	actions   llmSvc.ActionService
	sseConfig *sse.Config
	logger    *slog.Logger
}

// NewActionHandler creates a new action handler
func NewActionHandler(actions llmSvc.ActionService, sseConfig *sse.Config, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		actions:   actions,
		sseConfig: sseConfig,
		logger:    logger,
	}
}

// AudioRequest is the body of POST /api/actions/audio
type AudioRequest struct {
	Text string `json:"text"`
}

// Invoke starts a generation and streams it back
// POST /api/actions/invoke
// Success streams `delta` events then `done`; failure before streaming answers {success:false,error}
func (h *ActionHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	var req llmSvc.InvokeRequest
	if !parseBody(w, r, &req) {
		return
	}
	if err := validateInvokeRequest(&req); err != nil {
		handleError(w, err)
		return
	}

	result := h.actions.Invoke(r.Context(), &req)
	if !result.Success {
		httputil.RespondJSON(w, http.StatusOK, result)
		return
	}

	stream, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer stream.Close()

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	keepAlive.Start(stream, h.logger)
	defer keepAlive.Stop()

	content := result.Response.Content
	for {
		frag, ok := content.Next(r.Context())
		if !ok {
			break
		}
		if err := stream.WriteEvent(chat.SSEEventDelta, chat.DeltaEvent{Text: frag}); err != nil {
			h.logger.Info("client disconnected during invoke stream", "error", err)
			return
		}
	}

	done := chat.DoneEvent{Success: true, Model: result.Response.Model}
	if err := content.Err(); err != nil {
		done = chat.DoneEvent{Success: false, Error: err.Error()}
	} else if meta := content.Metadata(); meta != nil {
		if meta.Model != "" {
			done.Model = meta.Model
		}
		done.FinishReason = meta.FinishReason
	}
	if err := stream.WriteEvent(chat.SSEEventDone, done); err != nil {
		h.logger.Info("client disconnected before done event", "error", err)
	}
}

// SynthesizeAudio converts text to a WAV data URI
// POST /api/actions/audio
func (h *ActionHandler) SynthesizeAudio(w http.ResponseWriter, r *http.Request) {
	var req AudioRequest
	if !parseBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		handleError(w, fmt.Errorf("%w: text is required", domain.ErrValidation))
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.actions.SynthesizeAudio(r.Context(), req.Text))
}

func validateInvokeRequest(req *llmSvc.InvokeRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Mode, validation.Required, validation.In(chat.ModeValues()...)),
		validation.Field(&req.Language, validation.Required, validation.In(chat.LanguageValues()...)),
		validation.Field(&req.Text, validation.Length(0, config.MaxMessageLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.Media != nil && *req.Media == "" {
		req.Media = nil
	}
	if strings.TrimSpace(req.Text) == "" && req.Media == nil {
		return fmt.Errorf("%w: text or media is required", domain.ErrValidation)
	}
	return nil
}
