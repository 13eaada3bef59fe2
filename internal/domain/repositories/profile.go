package repositories

import (
	"context"

	"synapse/internal/domain/models"
)

// ProfileStore persists one profile document per user.
type ProfileStore interface {
	// Get retrieves a profile
	// Returns nil, nil if the user has no profile yet
	Get(ctx context.Context, userID string) (*models.UserProfile, error)

	// Upsert creates the profile or merges the non-absent fields into the stored one
	// The store sets LastInteraction (and CreatedAt on insert); the merged profile is written back into p
	Upsert(ctx context.Context, p *models.UserProfile) error

	// Update applies a partial update to an existing profile
	// Returns domain.ErrNotFound if the profile does not exist
	Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error)
}
