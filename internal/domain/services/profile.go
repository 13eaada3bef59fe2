package services

import (
	"context"

	"synapse/internal/domain/models"
)

// ProfileService defines the business logic for user profile operations
type ProfileService interface {
	// GetOrCreateProfile returns the user's profile, creating an empty one on first access
	GetOrCreateProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// UpsertProfile creates the profile or merges the provided fields into it
	// Fields left nil keep their stored values
	UpsertProfile(ctx context.Context, userID string, req *UpsertProfileRequest) (*models.UserProfile, error)

	// UpdateProfile applies a partial update (memory_notes is tri-state)
	// Returns domain.ErrNotFound if the profile does not exist
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error)
}

// UpsertProfileRequest is the DTO for PUT /api/users/me/profile
type UpsertProfileRequest struct {
	Name        *string  `json:"name"`
	Language    *string  `json:"language"`
	Profession  *string  `json:"profession"`
	Interests   []string `json:"interests"`
	MemoryNotes *string  `json:"memory_notes"`
}
