package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"synapse/internal/domain"
	"synapse/internal/domain/models"
	"synapse/internal/domain/services"
	"synapse/internal/repository/memory"
)

func strPtr(s string) *string { return &s }

func newTestProfileService() services.ProfileService {
	return NewProfileService(memory.NewProfileStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetOrCreateProfile(t *testing.T) {
	svc := newTestProfileService()
	ctx := context.Background()

	p, err := svc.GetOrCreateProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreateProfile: %v", err)
	}
	if p.ID != "u1" || p.Interests == nil {
		t.Fatalf("unexpected new profile: %+v", p)
	}

	if _, err := svc.UpsertProfile(ctx, "u1", &services.UpsertProfileRequest{Name: strPtr("Ayesha")}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	p, err = svc.GetOrCreateProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreateProfile: %v", err)
	}
	if p.Name == nil || *p.Name != "Ayesha" {
		t.Errorf("existing profile not returned: %+v", p)
	}
}

func TestUpsertProfile_MergesAbsentFields(t *testing.T) {
	svc := newTestProfileService()
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, "u1", &services.UpsertProfileRequest{
		Name:       strPtr("Bilal"),
		Profession: strPtr("teacher"),
		Interests:  []string{"cricket"},
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	p, err := svc.UpsertProfile(ctx, "u1", &services.UpsertProfileRequest{Language: strPtr("pashto")})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if p.Name == nil || *p.Name != "Bilal" {
		t.Errorf("name lost on merge: %v", p.Name)
	}
	if p.Language == nil || *p.Language != "pashto" {
		t.Errorf("language not set: %v", p.Language)
	}
	if len(p.Interests) != 1 || p.Interests[0] != "cricket" {
		t.Errorf("interests lost on merge: %v", p.Interests)
	}
	if p.LastInteraction.IsZero() {
		t.Error("last interaction should be set by the store")
	}
}

func TestUpsertProfile_Validation(t *testing.T) {
	svc := newTestProfileService()

	tests := []struct {
		name string
		req  *services.UpsertProfileRequest
	}{
		{"empty name", &services.UpsertProfileRequest{Name: strPtr("")}},
		{"long name", &services.UpsertProfileRequest{Name: strPtr(strings.Repeat("a", 256))}},
		{"blank interest", &services.UpsertProfileRequest{Interests: []string{"books", ""}}},
		{"long notes", &services.UpsertProfileRequest{MemoryNotes: strPtr(strings.Repeat("n", 4001))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertProfile(context.Background(), "u1", tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestProfileService()
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, "ghost", &models.UpdateProfileRequest{Name: strPtr("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for missing profile, got %v", err)
	}

	if _, err := svc.UpsertProfile(ctx, "u1", &services.UpsertProfileRequest{
		Name:        strPtr("Sana"),
		MemoryNotes: strPtr("likes poetry"),
	}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	// Absent memory notes are left alone
	p, err := svc.UpdateProfile(ctx, "u1", &models.UpdateProfileRequest{Profession: strPtr("doctor")})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.MemoryNotes == nil || *p.MemoryNotes != "likes poetry" {
		t.Errorf("memory notes changed: %v", p.MemoryNotes)
	}

	// Present but null clears them
	p, err = svc.UpdateProfile(ctx, "u1", &models.UpdateProfileRequest{
		MemoryNotes: models.OptionalMemoryNotes{Present: true},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.MemoryNotes != nil {
		t.Errorf("memory notes should be cleared, got %q", *p.MemoryNotes)
	}
	if p.Profession == nil || *p.Profession != "doctor" {
		t.Errorf("profession lost: %v", p.Profession)
	}
}
