package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"synapse/internal/domain"
	"synapse/internal/domain/models"
	"synapse/internal/domain/repositories"
)

// PostgresProfileStore implements the ProfileStore interface
type PostgresProfileStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewProfileStore creates a new PostgresProfileStore
func NewProfileStore(config *RepositoryConfig) repositories.ProfileStore {
	return &PostgresProfileStore{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

const profileColumns = `id, name, language, profession, interests, memory_notes, last_interaction, created_at`

// Get retrieves a profile, nil if none exists
func (r *PostgresProfileStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE id = $1`

	var p models.UserProfile
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(profileDest(&p)...)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return &p, nil
}

// Upsert inserts or merges the profile. COALESCE keeps stored values for absent fields.
func (r *PostgresProfileStore) Upsert(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (id, name, language, profession, interests, memory_notes, last_interaction, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, '{}'::text[]), $6, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, user_profiles.name),
			language = COALESCE(EXCLUDED.language, user_profiles.language),
			profession = COALESCE(EXCLUDED.profession, user_profiles.profession),
			interests = CASE WHEN $5::text[] IS NULL THEN user_profiles.interests ELSE EXCLUDED.interests END,
			memory_notes = COALESCE(EXCLUDED.memory_notes, user_profiles.memory_notes),
			last_interaction = now()
		RETURNING ` + profileColumns

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		p.ID, p.Name, p.Language, p.Profession, p.Interests, p.MemoryNotes,
	).Scan(profileDest(p)...)
	if err != nil {
		return fmt.Errorf("upsert user profile: %w", err)
	}
	return nil
}

// Update applies a partial update inside a transaction so the read-modify-write is atomic
func (r *PostgresProfileStore) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	var updated *models.UserProfile
	tm := NewTransactionManager(r.pool, r.logger)
	err := tm.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, r.pool)

		var p models.UserProfile
		query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE id = $1 FOR UPDATE`
		if err := executor.QueryRow(ctx, query, userID).Scan(profileDest(&p)...); err != nil {
			if IsPgNoRowsError(err) {
				return &domain.NotFoundError{Message: fmt.Sprintf("profile '%s' not found", userID)}
			}
			return fmt.Errorf("get user profile: %w", err)
		}

		req.Apply(&p)

		update := `
			UPDATE user_profiles
			SET name = $2, language = $3, profession = $4, interests = $5, memory_notes = $6, last_interaction = now()
			WHERE id = $1
			RETURNING ` + profileColumns
		if err := executor.QueryRow(ctx, update,
			p.ID, p.Name, p.Language, p.Profession, p.Interests, p.MemoryNotes,
		).Scan(profileDest(&p)...); err != nil {
			return fmt.Errorf("update user profile: %w", err)
		}

		updated = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func profileDest(p *models.UserProfile) []interface{} {
	return []interface{}{
		&p.ID, &p.Name, &p.Language, &p.Profession, &p.Interests, &p.MemoryNotes, &p.LastInteraction, &p.CreatedAt,
	}
}
