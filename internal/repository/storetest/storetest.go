// Package storetest holds behavior tests shared by every store implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"synapse/internal/domain"
	"synapse/internal/domain/models"
	"synapse/internal/domain/models/chat"
	"synapse/internal/domain/repositories"
)

// RunSessionStoreTests exercises a SessionStore. newStore must return an empty store.
func RunSessionStoreTests(t *testing.T, newStore func(t *testing.T) repositories.SessionStore) {
	ctx := context.Background()

	t.Run("create and get keeps message order", func(t *testing.T) {
		store := newStore(t)
		s := chat.NewSession("u1", "hello there", time.UnixMilli(1000))
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}

		first := chat.NewUserMessage("hello there", nil)
		reply := chat.NewAssistantPlaceholder()
		reply.Content = "Assalam-o-Alaikum"
		if err := store.AppendMessages(ctx, s.ID, first, reply); err != nil {
			t.Fatalf("AppendMessages: %v", err)
		}
		second := chat.NewUserMessage("and again", nil)
		if err := store.AppendMessages(ctx, s.ID, second); err != nil {
			t.Fatalf("AppendMessages: %v", err)
		}

		got, err := store.Get(ctx, s.ID, "u1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Title != "hello there" || got.Timestamp != 1000 {
			t.Errorf("unexpected metadata: %+v", got)
		}
		wantIDs := []string{first.ID, reply.ID, second.ID}
		if len(got.Messages) != len(wantIDs) {
			t.Fatalf("expected %d messages, got %d", len(wantIDs), len(got.Messages))
		}
		for i, id := range wantIDs {
			if got.Messages[i].ID != id {
				t.Errorf("message %d: expected %s, got %s", i, id, got.Messages[i].ID)
			}
		}
		if got.Messages[1].Role != chat.RoleAssistant || got.Messages[1].Content != "Assalam-o-Alaikum" {
			t.Errorf("assistant message not stored faithfully: %+v", got.Messages[1])
		}
	})

	t.Run("get is scoped to the owner", func(t *testing.T) {
		store := newStore(t)
		s := chat.NewSession("u1", "private", time.Now())
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
		_, err := store.Get(ctx, s.ID, "u2")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("append to missing session", func(t *testing.T) {
		store := newStore(t)
		err := store.AppendMessages(ctx, "missing", chat.NewUserMessage("x", nil))
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list recent newest first", func(t *testing.T) {
		store := newStore(t)
		for i, title := range []string{"old", "newest", "middle"} {
			ts := []int64{100, 300, 200}[i]
			if err := store.Create(ctx, chat.NewSession("u1", title, time.UnixMilli(ts))); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}
		if err := store.Create(ctx, chat.NewSession("u2", "someone else", time.UnixMilli(999))); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := store.ListRecent(ctx, "u1", 10)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		want := []string{"newest", "middle", "old"}
		if len(got) != len(want) {
			t.Fatalf("expected %d sessions, got %d", len(want), len(got))
		}
		for i, title := range want {
			if got[i].Title != title {
				t.Errorf("position %d: expected %q, got %q", i, title, got[i].Title)
			}
		}

		limited, err := store.ListRecent(ctx, "u1", 2)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected limit to apply, got %d", len(limited))
		}
	})

	t.Run("update message audio", func(t *testing.T) {
		store := newStore(t)
		s := chat.NewSession("u1", "speak", time.Now())
		reply := chat.NewAssistantPlaceholder()
		reply.Content = "hi"
		s.Messages = append(s.Messages, reply)
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}

		if err := store.UpdateMessageAudio(ctx, s.ID, reply.ID, "data:audio/wav;base64,AAAA"); err != nil {
			t.Fatalf("UpdateMessageAudio: %v", err)
		}
		got, err := store.Get(ctx, s.ID, "u1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Messages[0].Audio == nil || *got.Messages[0].Audio != "data:audio/wav;base64,AAAA" {
			t.Errorf("audio not attached: %+v", got.Messages[0])
		}

		err = store.UpdateMessageAudio(ctx, s.ID, "nope", "x")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown message, got %v", err)
		}
	})
}

// RunProfileStoreTests exercises a ProfileStore. newStore must return an empty store.
func RunProfileStoreTests(t *testing.T, newStore func(t *testing.T) repositories.ProfileStore) {
	ctx := context.Background()
	str := func(s string) *string { return &s }

	t.Run("get missing returns nil", func(t *testing.T) {
		store := newStore(t)
		p, err := store.Get(ctx, "nobody")
		if err != nil || p != nil {
			t.Errorf("expected nil, nil; got %v, %v", p, err)
		}
	})

	t.Run("upsert merges absent fields", func(t *testing.T) {
		store := newStore(t)
		first := &models.UserProfile{ID: "u1", Name: str("Bilal"), Interests: []string{"cricket", "poetry"}}
		if err := store.Upsert(ctx, first); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		if first.CreatedAt.IsZero() || first.LastInteraction.IsZero() {
			t.Errorf("store must assign timestamps: %+v", first)
		}

		second := &models.UserProfile{ID: "u1", Profession: str("engineer")}
		if err := store.Upsert(ctx, second); err != nil {
			t.Fatalf("Upsert: %v", err)
		}

		got, err := store.Get(ctx, "u1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Name == nil || *got.Name != "Bilal" {
			t.Errorf("name lost on merge: %v", got.Name)
		}
		if got.Profession == nil || *got.Profession != "engineer" {
			t.Errorf("profession not merged: %v", got.Profession)
		}
		if len(got.Interests) != 2 {
			t.Errorf("interests lost on merge: %v", got.Interests)
		}
	})

	t.Run("update clears memory notes", func(t *testing.T) {
		store := newStore(t)
		if err := store.Upsert(ctx, &models.UserProfile{ID: "u1", MemoryNotes: str("prefers Urdu poetry")}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}

		got, err := store.Update(ctx, "u1", &models.UpdateProfileRequest{
			Language:    str("english"),
			MemoryNotes: models.OptionalMemoryNotes{Present: true},
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got.MemoryNotes != nil {
			t.Errorf("expected memory notes cleared, got %q", *got.MemoryNotes)
		}
		if got.Language == nil || *got.Language != "english" {
			t.Errorf("language not updated: %v", got.Language)
		}
	})

	t.Run("update missing profile", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Update(ctx, "nobody", &models.UpdateProfileRequest{Name: str("x")})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
