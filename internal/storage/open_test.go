package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/mealmax/internal/config"
	"github.com/cory-johannsen/mealmax/internal/meal"
	"github.com/cory-johannsen/mealmax/internal/storage"
)

func TestOpen_SQLite(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	path := filepath.Join(t.TempDir(), "meal_max.db")

	store, cleanup, err := storage.Open(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   path,
	}, zap.New(core))
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, store.Ping(context.Background()))
	m, err := store.Create(context.Background(), "Curry", "Indian", 9.5, meal.DifficultyMed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)

	entries := logs.FilterMessage("opened database").All()
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].ContextMap()["path"])
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, cleanup, err := storage.Open(context.Background(), config.DatabaseConfig{Driver: "mysql"}, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, cleanup)
}

func TestOpen_SQLiteEmptyPath(t *testing.T) {
	_, _, err := storage.Open(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite}, zap.NewNop())
	assert.Error(t, err)
}
