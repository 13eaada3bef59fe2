package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"synapse/internal/domain"
	"synapse/internal/domain/models"
	"synapse/internal/domain/repositories"
)

// ProfileStore keeps profiles in process memory.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
	now      func() time.Time
}

// NewProfileStore creates an empty in-memory profile store
func NewProfileStore() repositories.ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]*models.UserProfile),
		now:      time.Now,
	}
}

func (s *ProfileStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return cloneProfile(p), nil
}

func (s *ProfileStore) Upsert(ctx context.Context, p *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	stored, ok := s.profiles[p.ID]
	if !ok {
		stored = &models.UserProfile{ID: p.ID, Interests: []string{}, CreatedAt: now}
		s.profiles[p.ID] = stored
	}
	p.MergeInto(stored)
	stored.LastInteraction = now

	*p = *cloneProfile(stored)
	return nil
}

func (s *ProfileStore) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.profiles[userID]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("profile '%s' not found", userID)}
	}
	req.Apply(stored)
	stored.LastInteraction = s.now().UTC()
	return cloneProfile(stored), nil
}

func cloneProfile(p *models.UserProfile) *models.UserProfile {
	out := *p
	out.Interests = append([]string{}, p.Interests...)
	return &out
}
