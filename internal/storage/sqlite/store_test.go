package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mealmax/internal/meal"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "meals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestOpen_CreatesParentDirAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "meals.db")

	first, err := Open(context.Background(), path)
	require.NoError(t, err)
	_, err = first.Create(context.Background(), "Soup", "French", 4, meal.DifficultyLow)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer second.Close()

	m, err := second.GetByName(context.Background(), "Soup")
	require.NoError(t, err)
	assert.Equal(t, "French", m.Cuisine)
}

func TestOpen_RecordsMigrationVersion(t *testing.T) {
	store := openTempStore(t)

	var version int
	var dirty bool
	require.NoError(t, store.sqlDB.QueryRow(`SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty))
	assert.Equal(t, 1, version)
	assert.False(t, dirty)

	require.NoError(t, migrateUp(store.sqlDB))
	require.NoError(t, store.Ping(context.Background()))
}

func TestCreateAndGet(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "Spaghetti Bolognese", "Italian", 12.5, meal.DifficultyMed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	byID, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byName, err := store.GetByName(ctx, "Spaghetti Bolognese")
	require.NoError(t, err)
	assert.Equal(t, created, byName)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	cases := []struct {
		name       string
		price      float64
		difficulty meal.Difficulty
	}{
		{"negative price", -10.5, meal.DifficultyMed},
		{"zero price", 0, meal.DifficultyMed},
		{"bad difficulty", 12.5, meal.Difficulty("EXTREME")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Create(ctx, "Bad", "X", tc.price, tc.difficulty)
			assert.ErrorIs(t, err, meal.ErrInvalidArgument)
		})
	}

	meals, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestCreateDuplicateName(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "Pizza", "Italian", 10, meal.DifficultyMed)
	require.NoError(t, err)
	_, err = store.Create(ctx, "Pizza", "Italian", 10, meal.DifficultyMed)
	assert.ErrorIs(t, err, meal.ErrAlreadyExists)
}

func TestDeletedNameCanBeReused(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, "Pizza", "Italian", 10, meal.DifficultyMed)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, first.ID))

	second, err := store.Create(ctx, "Pizza", "Italian", 11, meal.DifficultyHigh)
	require.NoError(t, err)

	got, err := store.GetByName(ctx, "Pizza")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestDeleteLifecycle(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	err := store.Delete(ctx, 999)
	assert.ErrorIs(t, err, meal.ErrNotFound)
	assert.Contains(t, err.Error(), "999")

	m, err := store.Create(ctx, "Tacos", "Mexican", 8, meal.DifficultyLow)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, m.ID))

	assert.ErrorIs(t, store.Delete(ctx, m.ID), meal.ErrAlreadyDeleted)
	_, err = store.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, meal.ErrAlreadyDeleted)
	_, err = store.GetByName(ctx, "Tacos")
	assert.ErrorIs(t, err, meal.ErrAlreadyDeleted)
	assert.ErrorIs(t, store.UpdateStats(ctx, m.ID, meal.OutcomeLoss), meal.ErrAlreadyDeleted)

	_, err = store.GetByName(ctx, "Burrito")
	assert.ErrorIs(t, err, meal.ErrNotFound)
}

func TestUpdateStats(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	m, err := store.Create(ctx, "Sushi", "Japanese", 15, meal.DifficultyHigh)
	require.NoError(t, err)

	require.NoError(t, store.UpdateStats(ctx, m.ID, meal.OutcomeWin))
	require.NoError(t, store.UpdateStats(ctx, m.ID, meal.OutcomeLoss))

	got, err := store.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Battles)
	assert.Equal(t, 1, got.Wins)

	fresh, err := store.Create(ctx, "Udon", "Japanese", 9, meal.DifficultyLow)
	require.NoError(t, err)
	require.NoError(t, store.UpdateStats(ctx, fresh.ID, meal.OutcomeLoss))
	got, err = store.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Battles)
	assert.Equal(t, 0, got.Wins)

	assert.ErrorIs(t, store.UpdateStats(ctx, m.ID, meal.Outcome("tie")), meal.ErrInvalidArgument)
	assert.ErrorIs(t, store.UpdateStats(ctx, 999, meal.OutcomeWin), meal.ErrNotFound)
}

func TestUpdateStats_ConcurrentIncrementsAreNotLost(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	m, err := store.Create(ctx, "Ramen", "Japanese", 11, meal.DifficultyMed)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.UpdateStats(ctx, m.ID, meal.OutcomeWin)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, got.Battles)
	assert.Equal(t, workers, got.Wins)
}

func TestLeaderboard(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	a, err := store.Create(ctx, "A", "Thai", 9, meal.DifficultyLow)
	require.NoError(t, err)
	b, err := store.Create(ctx, "B", "Thai", 9, meal.DifficultyLow)
	require.NoError(t, err)
	gone, err := store.Create(ctx, "Gone", "Thai", 9, meal.DifficultyLow)
	require.NoError(t, err)
	require.NoError(t, store.UpdateStats(ctx, gone.ID, meal.OutcomeWin))
	require.NoError(t, store.Delete(ctx, gone.ID))

	for _, o := range []meal.Outcome{meal.OutcomeWin, meal.OutcomeWin, meal.OutcomeLoss} {
		require.NoError(t, store.UpdateStats(ctx, a.ID, o))
	}
	require.NoError(t, store.UpdateStats(ctx, b.ID, meal.OutcomeWin))

	byWins, err := store.Leaderboard(ctx, meal.SortByWins)
	require.NoError(t, err)
	require.Len(t, byWins, 2)
	assert.Equal(t, a.ID, byWins[0].ID)
	assert.InDelta(t, 2.0/3.0, byWins[0].WinPct, 1e-9)

	byPct, err := store.Leaderboard(ctx, meal.SortByWinPct)
	require.NoError(t, err)
	assert.Equal(t, b.ID, byPct[0].ID)

	_, err = store.Leaderboard(ctx, meal.SortKey("price"))
	assert.ErrorIs(t, err, meal.ErrInvalidArgument)
}

func TestClearCatalog(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	for _, name := range []string{"X", "Y", "Z"} {
		_, err := store.Create(ctx, name, "Fusion", 5, meal.DifficultyMed)
		require.NoError(t, err)
	}

	n, err := store.ClearCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = store.ClearCatalog(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	board, err := store.Leaderboard(ctx, meal.SortByWins)
	require.NoError(t, err)
	assert.Empty(t, board)
}

func TestPing(t *testing.T) {
	assert.NoError(t, openTempStore(t).Ping(context.Background()))
}

// Property: wins never exceed battles and both match the applied outcomes.
func TestPropertyStatsConsistent(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	counter := 0

	rapid.Check(t, func(rt *rapid.T) {
		counter++
		m, err := store.Create(ctx, fmt.Sprintf("meal_%d", counter), "Greek", 7, meal.DifficultyMed)
		if err != nil {
			rt.Fatalf("Create: %v", err)
		}
		outcomes := rapid.SliceOfN(rapid.SampledFrom([]meal.Outcome{meal.OutcomeWin, meal.OutcomeLoss}), 0, 10).Draw(rt, "outcomes")
		wins := 0
		for _, o := range outcomes {
			if o == meal.OutcomeWin {
				wins++
			}
			if err := store.UpdateStats(ctx, m.ID, o); err != nil {
				rt.Fatalf("UpdateStats: %v", err)
			}
		}
		got, err := store.GetByID(ctx, m.ID)
		if err != nil {
			rt.Fatalf("GetByID: %v", err)
		}
		if got.Wins > got.Battles {
			rt.Fatalf("wins %d > battles %d", got.Wins, got.Battles)
		}
		if got.Battles != len(outcomes) || got.Wins != wins {
			rt.Fatalf("battles=%d wins=%d, want %d/%d", got.Battles, got.Wins, len(outcomes), wins)
		}
	})
}
