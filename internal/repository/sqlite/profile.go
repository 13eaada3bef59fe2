package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"synapse/internal/domain"
	"synapse/internal/domain/models"
	"synapse/internal/domain/repositories"
)

// ProfileStore implements repositories.ProfileStore on sqlite
type ProfileStore struct {
	*DB
	now func() time.Time
}

// NewProfileStore creates a profile store over an open database
func NewProfileStore(db *DB) repositories.ProfileStore {
	return &ProfileStore{DB: db, now: time.Now}
}

// Get retrieves a profile, nil if none exists
func (s *ProfileStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := getProfile(ctx, s.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// Upsert inserts or merges the profile
func (s *ProfileStore) Upsert(ctx context.Context, p *models.UserProfile) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now().UTC()
		stored, err := getProfile(ctx, tx, p.ID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			stored = &models.UserProfile{ID: p.ID, Interests: []string{}, CreatedAt: now}
		case err != nil:
			return err
		}

		p.MergeInto(stored)
		stored.LastInteraction = now
		if err := writeProfile(ctx, tx, stored); err != nil {
			return err
		}
		*p = *stored
		return nil
	})
}

// Update applies a partial update to an existing profile
func (s *ProfileStore) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	var updated *models.UserProfile
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := getProfile(ctx, tx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.NotFoundError{Message: fmt.Sprintf("profile '%s' not found", userID)}
		}
		if err != nil {
			return err
		}

		req.Apply(p)
		p.LastInteraction = s.now().UTC()
		if err := writeProfile(ctx, tx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	return updated, err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getProfile(ctx context.Context, q queryer, userID string) (*models.UserProfile, error) {
	var (
		p                          models.UserProfile
		name, lang, prof, notes    sql.NullString
		interests                  string
		lastInteraction, createdAt int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, name, language, profession, interests, memory_notes, last_interaction, created_at
		 FROM user_profiles WHERE id = ?`,
		userID,
	).Scan(&p.ID, &name, &lang, &prof, &interests, &notes, &lastInteraction, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	p.Name = nullableString(name)
	p.Language = nullableString(lang)
	p.Profession = nullableString(prof)
	p.MemoryNotes = nullableString(notes)
	if err := json.Unmarshal([]byte(interests), &p.Interests); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	p.LastInteraction = time.UnixMilli(lastInteraction).UTC()
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &p, nil
}

func writeProfile(ctx context.Context, tx *sql.Tx, p *models.UserProfile) error {
	if p.Interests == nil {
		p.Interests = []string{}
	}
	interests, err := json.Marshal(p.Interests)
	if err != nil {
		return fmt.Errorf("encode interests: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_profiles (id, name, language, profession, interests, memory_notes, last_interaction, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			language = excluded.language,
			profession = excluded.profession,
			interests = excluded.interests,
			memory_notes = excluded.memory_notes,
			last_interaction = excluded.last_interaction`,
		p.ID, p.Name, p.Language, p.Profession, string(interests), p.MemoryNotes,
		p.LastInteraction.UnixMilli(), p.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write user profile: %w", err)
	}
	return nil
}
