package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"synapse/internal/config"
	"synapse/internal/domain"
	"synapse/internal/domain/models"
	"synapse/internal/domain/repositories"
	"synapse/internal/domain/services"
)

// ProfileService implements the ProfileService interface
type ProfileService struct {
	profiles repositories.ProfileStore
	logger   *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profiles repositories.ProfileStore,
	logger *slog.Logger,
) services.ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger,
	}
}

// GetOrCreateProfile retrieves the profile, creating an empty one if none exists
func (s *ProfileService) GetOrCreateProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile != nil {
		return profile, nil
	}

	s.logger.Debug("no profile found, creating", "user_id", userID)
	profile = &models.UserProfile{
		ID:        userID,
		Interests: []string{},
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// UpsertProfile creates or merges the profile
func (s *ProfileService) UpsertProfile(ctx context.Context, userID string, req *services.UpsertProfileRequest) (*models.UserProfile, error) {
	if err := validateProfileFields(req.Name, req.Language, req.Profession, req.MemoryNotes, req.Interests); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	profile := &models.UserProfile{
		ID:          userID,
		Name:        req.Name,
		Language:    req.Language,
		Profession:  req.Profession,
		Interests:   req.Interests,
		MemoryNotes: req.MemoryNotes,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	s.logger.Info("profile upserted", "user_id", userID)
	return profile, nil
}

// UpdateProfile applies a partial update to an existing profile
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	if err := validateProfileFields(req.Name, req.Language, req.Profession, req.MemoryNotes.Value, req.Interests); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	profile, err := s.profiles.Update(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated",
		"user_id", userID,
		"has_name", req.Name != nil,
		"has_interests", req.Interests != nil,
		"has_memory_notes", req.MemoryNotes.Present,
	)
	return profile, nil
}

type profileFields struct {
	Name        *string
	Language    *string
	Profession  *string
	MemoryNotes *string
	Interests   []string
}

func validateProfileFields(name, language, profession, memoryNotes *string, interests []string) error {
	f := &profileFields{
		Name:        name,
		Language:    language,
		Profession:  profession,
		MemoryNotes: memoryNotes,
		Interests:   interests,
	}
	return validation.ValidateStruct(f,
		validation.Field(&f.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxProfileNameLength)),
		validation.Field(&f.Language, validation.Length(0, config.MaxProfileNameLength)),
		validation.Field(&f.Profession, validation.Length(0, config.MaxProfileNameLength)),
		validation.Field(&f.MemoryNotes, validation.Length(0, config.MaxMemoryNotesLength)),
		validation.Field(&f.Interests,
			validation.Length(0, config.MaxInterests),
			validation.Each(validation.Required, validation.Length(1, config.MaxProfileNameLength)),
		),
	)
}
