// Package repo defines the pluggable user store contract and selects a
// backend at startup. Handlers depend on their own narrow interfaces; this
// one exists so the wiring code can treat every backend uniformly.
package repo

import (
	"context"
	"log/slog"

	"github.com/habitflow/userhub/internal/config"
	"github.com/habitflow/userhub/internal/db"
	"github.com/habitflow/userhub/internal/domain/user"
	"github.com/habitflow/userhub/internal/repo/file"
	"github.com/habitflow/userhub/internal/repo/mongodb"
	"github.com/habitflow/userhub/internal/repo/postgres"
)

type UserStore interface {
	// List returns every record, newest first.
	List(ctx context.Context) ([]user.User, error)
	// FindByEmail matches case-insensitively and returns user.ErrNotFound
	// when absent.
	FindByEmail(ctx context.Context, email string) (user.User, error)
	Insert(ctx context.Context, u user.User) error
	// DeleteByID reports whether a record was actually removed.
	DeleteByID(ctx context.Context, id string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// Select picks a backend from configuration. The mongo and postgres backends
// are only used when they actually connect; any connect failure falls back to
// the flat file backend so the service always comes up.
func Select(ctx context.Context, cfg config.Config, log *slog.Logger) UserStore {
	if cfg.MongoURL != "" {
		store, err := mongodb.NewUsersRepo(ctx, cfg.MongoURL, cfg.MongoDB)

		if err == nil {
			log.Info("user store selected", "backend", "mongodb", "db", cfg.MongoDB)
			return store
		}

		log.Warn("mongodb unavailable, falling back to file store", "err", err)
	}

	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(cfg.DatabaseURL)

		if err == nil {
			store := postgres.NewUsersRepo(pool)

			if err := store.EnsureSchema(ctx); err != nil {
				log.Warn("postgres schema setup failed, falling back to file store", "err", err)
				pool.Close()
			} else {
				log.Info("user store selected", "backend", "postgres")
				return store
			}
		} else {
			log.Warn("postgres unavailable, falling back to file store", "err", err)
		}
	}

	log.Info("user store selected", "backend", "file", "path", cfg.UsersFile)

	return file.NewUsersRepo(cfg.UsersFile)
}
