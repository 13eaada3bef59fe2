// Package repository selects and opens the configured store implementation.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"synapse/internal/config"
	"synapse/internal/domain/repositories"
	"synapse/internal/repository/memory"
	"synapse/internal/repository/postgres"
	"synapse/internal/repository/sqlite"
)

// Stores bundles the persistence collaborators
type Stores struct {
	Sessions repositories.SessionStore
	Profiles repositories.ProfileStore

	close func()
}

// Close releases the underlying connections
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open creates the stores for cfg.StoreDriver. Postgres runs pending migrations first.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory stores, data is lost on restart")
		return &Stores{
			Sessions: memory.NewSessionStore(),
			Profiles: memory.NewProfileStore(),
		}, nil

	case "postgres":
		if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: logger}
		logger.Info("database connected", "driver", "postgres", "max_conns", pool.Config().MaxConns)
		return &Stores{
			Sessions: postgres.NewSessionStore(repoConfig),
			Profiles: postgres.NewProfileStore(repoConfig),
			close:    pool.Close,
		}, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("database connected", "driver", "sqlite", "path", cfg.SQLitePath)
		return &Stores{
			Sessions: sqlite.NewSessionStore(db),
			Profiles: sqlite.NewProfileStore(db),
			close:    func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
}
