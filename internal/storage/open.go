// Package storage selects and opens the configured meal persistence backend.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/config"
	"github.com/cory-johannsen/mealmax/internal/meal"
	"github.com/cory-johannsen/mealmax/internal/storage/postgres"
	"github.com/cory-johannsen/mealmax/internal/storage/sqlite"
)

// Store is a meal.Store that can also report its own reachability.
type Store interface {
	meal.Store
	Ping(ctx context.Context) error
}

// Open connects to the backend named by cfg.Driver.
//
// The PostgreSQL schema must already be migrated (see cmd/migrate); the SQLite
// backend applies its embedded migrations on open.
//
// Precondition: cfg must have passed config validation.
// Postcondition: Returns a ready Store and a cleanup func that releases it, or
// a non-nil error and nothing to clean up.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (Store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		logger.Info("connected to database",
			zap.String("driver", cfg.Driver),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("name", cfg.Name),
		)
		return postgres.NewMealRepository(pool.DB()), pool.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite: %w", err)
		}
		logger.Info("opened database",
			zap.String("driver", cfg.Driver),
			zap.String("path", cfg.Path),
		)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing sqlite store", zap.Error(err))
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
