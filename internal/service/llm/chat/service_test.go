package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"synapse/internal/domain"
	chatModels "synapse/internal/domain/models/chat"
	domainllm "synapse/internal/domain/services/llm"
	"synapse/internal/repository/memory"
)

// fakeActions streams events pushed by the test through a channel.
type fakeActions struct {
	events    chan domainllm.StreamEvent
	invokeErr string
	audio     *domainllm.AudioResult

	mu      sync.Mutex
	invoked []*domainllm.InvokeRequest
	spoken  []string
}

func newFakeActions() *fakeActions {
	return &fakeActions{events: make(chan domainllm.StreamEvent, 16)}
}

func (f *fakeActions) Invoke(ctx context.Context, req *domainllm.InvokeRequest) *domainllm.InvokeResult {
	f.mu.Lock()
	f.invoked = append(f.invoked, req)
	f.mu.Unlock()
	if f.invokeErr != "" {
		return &domainllm.InvokeResult{Success: false, Error: f.invokeErr}
	}
	return &domainllm.InvokeResult{
		Success:  true,
		Response: &domainllm.InvokeResponse{Content: domainllm.NewTextStream(f.events), Model: "fake"},
	}
}

func (f *fakeActions) SynthesizeAudio(ctx context.Context, text string) *domainllm.AudioResult {
	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	f.mu.Unlock()
	if f.audio != nil {
		return f.audio
	}
	return &domainllm.AudioResult{Success: true, Response: &domainllm.AudioResponse{Audio: "data:audio/wav;base64,UklGRg=="}}
}

// recorder is a SendObserver that keeps every event.
type recorder struct {
	mu       sync.Mutex
	starts   []*chatModels.MessageStartEvent
	deltas   []*chatModels.MessageDeltaEvent
	complete []*chatModels.MessageCompleteEvent
	errs     []*chatModels.MessageErrorEvent
}

func (r *recorder) OnStart(ev *chatModels.MessageStartEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, ev)
}

func (r *recorder) OnDelta(ev *chatModels.MessageDeltaEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deltas = append(r.deltas, ev)
}

func (r *recorder) OnComplete(ev *chatModels.MessageCompleteEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.complete = append(r.complete, ev)
}

func (r *recorder) OnError(ev *chatModels.MessageErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, ev)
}

func newTestService(t *testing.T, actions domainllm.ActionService) (*Service, *chatModels.Session) {
	t.Helper()
	svc := NewService(memory.NewSessionStore(), actions, slog.New(slog.NewTextHandler(io.Discard, nil)))
	session, err := svc.CreateChat(context.Background(), &domainllm.CreateChatRequest{UserID: "u1", FirstMessage: "Salam"})
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	return svc, session
}

func sendReq(chatID, text string) *domainllm.SendMessageRequest {
	return &domainllm.SendMessageRequest{
		ChatID:   chatID,
		UserID:   "u1",
		Text:     text,
		Mode:     chatModels.ModeConversation,
		Language: chatModels.LanguageEnglish,
	}
}

func TestSend_CompleteCarriesStreamMetadata(t *testing.T) {
	tests := []struct {
		name       string
		meta       *domainllm.StreamMetadata
		wantModel  string
		wantFinish string
	}{
		{"backend reports version", &domainllm.StreamMetadata{Model: "gemini-2.5-flash-001", FinishReason: "STOP"}, "gemini-2.5-flash-001", "STOP"},
		{"no metadata keeps routed model", nil, "fake", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := newFakeActions()
			svc, session := newTestService(t, actions)

			snd, err := svc.BeginSend(context.Background(), sendReq(session.ID, "Hello"))
			if err != nil {
				t.Fatalf("BeginSend: %v", err)
			}
			actions.events <- domainllm.StreamEvent{Delta: "Salam"}
			if tt.meta != nil {
				actions.events <- domainllm.StreamEvent{Metadata: tt.meta}
			}
			close(actions.events)

			obs := &recorder{}
			if _, err := snd.Run(context.Background(), obs); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(obs.complete) != 1 {
				t.Fatalf("expected one complete event, got %d", len(obs.complete))
			}
			got := obs.complete[0]
			if got.Model != tt.wantModel || got.FinishReason != tt.wantFinish {
				t.Errorf("complete = (%q, %q), want (%q, %q)", got.Model, got.FinishReason, tt.wantModel, tt.wantFinish)
			}
		})
	}
}

func TestSend_SettlesAndPersists(t *testing.T) {
	actions := newFakeActions()
	svc, session := newTestService(t, actions)

	snd, err := svc.BeginSend(context.Background(), sendReq(session.ID, "Hello"))
	if err != nil {
		t.Fatalf("BeginSend: %v", err)
	}
	for _, frag := range []string{"Wa ", "alaikum ", "assalam"} {
		actions.events <- domainllm.StreamEvent{Delta: frag}
	}
	close(actions.events)

	rec := &recorder{}
	msg, err := snd.Run(context.Background(), rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if msg.Content != "Wa alaikum assalam" {
		t.Errorf("unexpected content %q", msg.Content)
	}

	if len(rec.starts) != 1 || len(rec.complete) != 1 || len(rec.errs) != 0 {
		t.Fatalf("unexpected events: %d start, %d complete, %d error", len(rec.starts), len(rec.complete), len(rec.errs))
	}
	wantTotals := []string{"Wa ", "Wa alaikum ", "Wa alaikum assalam"}
	for i, d := range rec.deltas {
		if d.Content != wantTotals[i] {
			t.Errorf("delta %d: running total %q, want %q", i, d.Content, wantTotals[i])
		}
	}
	if snd.(*send).State() != StateSettled {
		t.Errorf("expected settled, got %s", snd.(*send).State())
	}

	got, err := svc.GetChat(context.Background(), session.ID, "u1")
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected user and assistant messages (welcome replaced), got %d", len(got.Messages))
	}
	if got.Messages[0].Role != chatModels.RoleUser || got.Messages[1].Content != "Wa alaikum assalam" {
		t.Errorf("unexpected stored messages: %+v %+v", got.Messages[0], got.Messages[1])
	}
}

func TestSend_RejectsSecondSubmissionWhileInFlight(t *testing.T) {
	actions := newFakeActions()
	svc, session := newTestService(t, actions)

	first, err := svc.BeginSend(context.Background(), sendReq(session.ID, "one"))
	if err != nil {
		t.Fatalf("BeginSend: %v", err)
	}

	_, err = svc.BeginSend(context.Background(), sendReq(session.ID, "two"))
	if !errors.Is(err, domain.ErrSendInFlight) {
		t.Fatalf("expected ErrSendInFlight, got %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		first.Run(context.Background(), &recorder{})
	}()

	actions.events <- domainllm.StreamEvent{Delta: "partial"}
	if _, err := svc.BeginSend(context.Background(), sendReq(session.ID, "three")); !errors.Is(err, domain.ErrSendInFlight) {
		t.Errorf("expected ErrSendInFlight while streaming, got %v", err)
	}
	close(actions.events)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send did not settle")
	}

	actions.events = make(chan domainllm.StreamEvent)
	close(actions.events)
	if _, err := svc.BeginSend(context.Background(), sendReq(session.ID, "four")); err != nil {
		t.Errorf("session must accept sends after settling: %v", err)
	}
}

func TestSend_ConcurrentBeginOnlyOneWins(t *testing.T) {
	svc, session := newTestService(t, newFakeActions())

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.BeginSend(context.Background(), sendReq(session.ID, "hi")); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("expected exactly one accepted send, got %d", accepted)
	}
}

func TestSend_FailureRetractsPlaceholder(t *testing.T) {
	t.Run("invoke failure", func(t *testing.T) {
		actions := newFakeActions()
		actions.invokeErr = "generation failed: quota exceeded"
		svc, session := newTestService(t, actions)

		snd, err := svc.BeginSend(context.Background(), sendReq(session.ID, "Hello"))
		if err != nil {
			t.Fatalf("BeginSend: %v", err)
		}
		rec := &recorder{}
		if _, err := snd.Run(context.Background(), rec); err == nil {
			t.Fatal("expected failure")
		}
		if len(rec.errs) != 1 || rec.errs[0].Error != "generation failed: quota exceeded" {
			t.Fatalf("expected one error event, got %+v", rec.errs)
		}
		assertNoAssistant(t, svc, session.ID, snd.AssistantMessageID())
	})

	t.Run("mid-stream failure", func(t *testing.T) {
		actions := newFakeActions()
		svc, session := newTestService(t, actions)

		snd, err := svc.BeginSend(context.Background(), sendReq(session.ID, "Hello"))
		if err != nil {
			t.Fatalf("BeginSend: %v", err)
		}
		actions.events <- domainllm.StreamEvent{Delta: "half an ans"}
		actions.events <- domainllm.StreamEvent{Error: errors.New("connection reset")}
		close(actions.events)

		rec := &recorder{}
		if _, err := snd.Run(context.Background(), rec); err == nil {
			t.Fatal("expected failure")
		}
		if snd.(*send).State() != StateFailed {
			t.Errorf("expected failed state, got %s", snd.(*send).State())
		}
		if len(rec.complete) != 0 {
			t.Errorf("failed send must not complete")
		}
		assertNoAssistant(t, svc, session.ID, snd.AssistantMessageID())

		// Session stays usable
		actions.events = make(chan domainllm.StreamEvent)
		close(actions.events)
		if _, err := svc.BeginSend(context.Background(), sendReq(session.ID, "again")); err != nil {
			t.Errorf("session should accept a new send: %v", err)
		}
	})
}

func assertNoAssistant(t *testing.T, svc *Service, chatID, assistantID string) {
	t.Helper()
	got, err := svc.GetChat(context.Background(), chatID, "u1")
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	for _, m := range got.Messages {
		if m.ID == assistantID {
			t.Errorf("placeholder %s must be removed", assistantID)
		}
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != chatModels.RoleUser {
		t.Errorf("expected only the user message to remain, got %+v", got.Messages)
	}
}

func TestBeginSend_Validation(t *testing.T) {
	svc, session := newTestService(t, newFakeActions())
	media := "data:image/png;base64,AAAA"
	empty := ""

	tests := []struct {
		name   string
		mutate func(r *domainllm.SendMessageRequest)
		wantOK bool
	}{
		{"text only", func(r *domainllm.SendMessageRequest) {}, true},
		{"media only", func(r *domainllm.SendMessageRequest) { r.Text = ""; r.Media = &media }, true},
		{"neither", func(r *domainllm.SendMessageRequest) { r.Text = "   " }, false},
		{"empty media string", func(r *domainllm.SendMessageRequest) { r.Text = ""; r.Media = &empty }, false},
		{"unknown mode", func(r *domainllm.SendMessageRequest) { r.Mode = "oracle" }, false},
		{"unknown language", func(r *domainllm.SendMessageRequest) { r.Language = "latin" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Fresh session per case so accepted sends do not block each other
			s, err := svc.CreateChat(context.Background(), &domainllm.CreateChatRequest{UserID: "u1", FirstMessage: tt.name})
			if err != nil {
				t.Fatalf("CreateChat: %v", err)
			}
			req := sendReq(s.ID, "hello")
			tt.mutate(req)
			_, err = svc.BeginSend(context.Background(), req)
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	_, err := svc.BeginSend(context.Background(), &domainllm.SendMessageRequest{
		ChatID: session.ID, UserID: "stranger", Text: "hi",
		Mode: chatModels.ModeConversation, Language: chatModels.LanguageEnglish,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign session should be not found, got %v", err)
	}
}

func TestGetChat_WelcomeAndInFlight(t *testing.T) {
	actions := newFakeActions()
	svc, session := newTestService(t, actions)

	got, err := svc.GetChat(context.Background(), session.ID, "u1")
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if len(got.Messages) != 1 || !got.Messages[0].IsWelcome() {
		t.Fatalf("empty chat should show the welcome message, got %+v", got.Messages)
	}

	snd, err := svc.BeginSend(context.Background(), sendReq(session.ID, "Hello"))
	if err != nil {
		t.Fatalf("BeginSend: %v", err)
	}
	got, err = svc.GetChat(context.Background(), session.ID, "u1")
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[1].ID != snd.AssistantMessageID() {
		t.Errorf("in-flight send should replace the welcome message, got %+v", got.Messages)
	}

	close(actions.events)
	if _, err := snd.Run(context.Background(), &recorder{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestGenerateAudio(t *testing.T) {
	actions := newFakeActions()
	svc, session := newTestService(t, actions)

	snd, err := svc.BeginSend(context.Background(), sendReq(session.ID, "Hello"))
	if err != nil {
		t.Fatalf("BeginSend: %v", err)
	}
	actions.events <- domainllm.StreamEvent{Delta: "Shukriya"}
	close(actions.events)
	reply, err := snd.Run(context.Background(), &recorder{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	msg, err := svc.GenerateAudio(context.Background(), session.ID, "u1", reply.ID)
	if err != nil {
		t.Fatalf("GenerateAudio: %v", err)
	}
	if msg.Audio == nil || *msg.Audio != "data:audio/wav;base64,UklGRg==" {
		t.Fatalf("audio not attached: %+v", msg)
	}
	if actions.spoken[0] != "Shukriya" {
		t.Errorf("expected message text to be synthesized, got %q", actions.spoken[0])
	}

	stored, _ := svc.GetChat(context.Background(), session.ID, "u1")
	if stored.Messages[1].Audio == nil {
		t.Errorf("audio must be persisted on the message")
	}

	userMsg := stored.Messages[0]
	if _, err := svc.GenerateAudio(context.Background(), session.ID, "u1", userMsg.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("user messages cannot be synthesized, got %v", err)
	}

	actions.audio = &domainllm.AudioResult{Success: false, Error: domain.ErrNoAudio.Error(), Cause: domain.ErrNoAudio}
	_, err = svc.GenerateAudio(context.Background(), session.ID, "u1", reply.ID)
	if !errors.Is(err, domain.ErrAudioFailed) || !errors.Is(err, domain.ErrNoAudio) {
		t.Fatalf("expected audio failure caused by ErrNoAudio, got %v", err)
	}
	if err.Error() != "audio generation failed, no media returned" {
		t.Errorf("failure text lost: %q", err.Error())
	}
}

func TestGenerateAudio_WelcomeMessage(t *testing.T) {
	svc, session := newTestService(t, newFakeActions())

	msg, err := svc.GenerateAudio(context.Background(), session.ID, "u1", chatModels.WelcomeMessageID)
	if err != nil {
		t.Fatalf("GenerateAudio: %v", err)
	}
	if msg.Audio == nil {
		t.Error("welcome message should get audio")
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateIdle, StateSending, true},
		{StateSending, StateStreaming, true},
		{StateSending, StateFailed, true},
		{StateSending, StateSettled, true},
		{StateStreaming, StateSettled, true},
		{StateStreaming, StateFailed, true},
		{StateIdle, StateStreaming, false},
		{StateSettled, StateSending, false},
		{StateFailed, StateStreaming, false},
	}
	for _, tt := range tests {
		if got := canTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
