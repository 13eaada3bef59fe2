package models

import "testing"

func strPtr(s string) *string { return &s }

func TestMergeInto_KeepsAbsentFields(t *testing.T) {
	stored := &UserProfile{
		ID:          "u1",
		Name:        strPtr("Ayesha"),
		Profession:  strPtr("teacher"),
		Interests:   []string{"cricket"},
		MemoryNotes: strPtr("likes chai"),
	}

	incoming := &UserProfile{ID: "u1", Language: strPtr("english")}
	incoming.MergeInto(stored)

	if stored.Name == nil || *stored.Name != "Ayesha" {
		t.Errorf("name should be preserved, got %v", stored.Name)
	}
	if stored.Language == nil || *stored.Language != "english" {
		t.Errorf("language should be set, got %v", stored.Language)
	}
	if len(stored.Interests) != 1 {
		t.Errorf("interests should be preserved, got %v", stored.Interests)
	}
	if stored.MemoryNotes == nil || *stored.MemoryNotes != "likes chai" {
		t.Errorf("memory notes should be preserved")
	}
}

func TestUpdateProfileRequest_MemoryNotesTriState(t *testing.T) {
	tests := []struct {
		name string
		req  UpdateProfileRequest
		want *string
	}{
		{"absent keeps", UpdateProfileRequest{}, strPtr("old")},
		{"null clears", UpdateProfileRequest{MemoryNotes: OptionalMemoryNotes{Present: true}}, nil},
		{"value sets", UpdateProfileRequest{MemoryNotes: OptionalMemoryNotes{Present: true, Value: strPtr("new")}}, strPtr("new")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &UserProfile{MemoryNotes: strPtr("old")}
			tt.req.Apply(p)
			switch {
			case tt.want == nil && p.MemoryNotes != nil:
				t.Errorf("expected nil, got %q", *p.MemoryNotes)
			case tt.want != nil && (p.MemoryNotes == nil || *p.MemoryNotes != *tt.want):
				t.Errorf("expected %q, got %v", *tt.want, p.MemoryNotes)
			}
		})
	}
}
