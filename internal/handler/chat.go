package handler

import (
	"context"
	"log/slog"
	"net/http"

	"synapse/internal/domain/models/chat"
	llmSvc "synapse/internal/domain/services/llm"
	"synapse/internal/handler/sse"
	"synapse/internal/httputil"
)

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	chatService llmSvc.ChatService
	sseConfig   *sse.Config
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService llmSvc.ChatService, sseConfig *sse.Config, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		sseConfig:   sseConfig,
		logger:      logger,
	}
}

// CreateChat creates a new chat session titled after the first message
// POST /api/chats
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req llmSvc.CreateChatRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = httputil.GetUserID(r)

	session, err := h.chatService.CreateChat(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, session)
}

// ListChats returns the caller's recent chats, newest first
// GET /api/chats
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.ListChats(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chats)
}

// GetChat retrieves a chat with its messages
// GET /api/chats/{id}
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatService.GetChat(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, session)
}

// SendMessage submits a message and streams the reply
// POST /api/chats/{id}/messages
// Rejections (validation, unknown chat, send in flight) are plain problem responses;
// once accepted the response is an SSE stream of message_* events.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req llmSvc.SendMessageRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ChatID = r.PathValue("id")
	req.UserID = httputil.GetUserID(r)

	send, err := h.chatService.BeginSend(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	// Sends cannot be cancelled: a dropped client still gets its reply persisted
	runCtx := context.WithoutCancel(r.Context())

	stream, err := sse.NewWriter(w)
	if err != nil {
		h.logger.Error("cannot stream reply", "chat_id", req.ChatID, "error", err)
		send.Run(runCtx, discardObserver{})
		return
	}
	defer stream.Close()

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	keepAlive.Start(stream, h.logger)
	defer keepAlive.Stop()

	obs := &sseObserver{stream: stream, chatID: req.ChatID, logger: h.logger}
	if _, err := send.Run(runCtx, obs); err != nil {
		h.logger.Warn("send failed", "chat_id", req.ChatID, "error", err)
	}
}

// GenerateAudio synthesizes an assistant message and attaches the audio to it
// POST /api/chats/{id}/messages/{messageId}/audio
func (h *ChatHandler) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	msg, err := h.chatService.GenerateAudio(r.Context(),
		r.PathValue("id"),
		httputil.GetUserID(r),
		r.PathValue("messageId"),
	)
	if err != nil {
		h.logger.Warn("audio generation failed",
			"chat_id", r.PathValue("id"),
			"message_id", r.PathValue("messageId"),
			"error", err,
		)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, msg)
}

// sseObserver forwards send progress to the client.
// A write failure means the client left; the send keeps running regardless.
type sseObserver struct {
	stream *sse.Writer
	chatID string
	logger *slog.Logger
	gone   bool
}

func (o *sseObserver) OnStart(ev *chat.MessageStartEvent) {
	o.write(chat.SSEEventMessageStart, ev)
}

func (o *sseObserver) OnDelta(ev *chat.MessageDeltaEvent) {
	o.write(chat.SSEEventMessageDelta, ev)
}

func (o *sseObserver) OnComplete(ev *chat.MessageCompleteEvent) {
	o.write(chat.SSEEventMessageComplete, ev)
}

func (o *sseObserver) OnError(ev *chat.MessageErrorEvent) {
	o.write(chat.SSEEventMessageError, ev)
}

func (o *sseObserver) write(event string, data interface{}) {
	if o.gone {
		return
	}
	if err := o.stream.WriteEvent(event, data); err != nil {
		o.gone = true
		o.logger.Info("client disconnected, continuing send",
			"chat_id", o.chatID,
			"event", event,
			"error", err,
		)
	}
}

type discardObserver struct{}

func (discardObserver) OnStart(*chat.MessageStartEvent)       {}
func (discardObserver) OnDelta(*chat.MessageDeltaEvent)       {}
func (discardObserver) OnComplete(*chat.MessageCompleteEvent) {}
func (discardObserver) OnError(*chat.MessageErrorEvent)       {}
