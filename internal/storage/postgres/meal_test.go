package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mealmax/internal/meal"
	"github.com/cory-johannsen/mealmax/internal/storage/postgres"
	"github.com/cory-johannsen/mealmax/internal/testutil"
)

func setupMealRepo(t *testing.T) *postgres.MealRepository {
	t.Helper()
	return postgres.NewMealRepository(testutil.NewPool(t))
}

func TestMealRepository_Create(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()

	m, err := repo.Create(ctx, "Spaghetti Bolognese", "Italian", 12.50, meal.DifficultyMed)
	require.NoError(t, err)

	assert.Greater(t, m.ID, int64(0))
	assert.Equal(t, "Spaghetti Bolognese", m.Name)
	assert.Equal(t, "Italian", m.Cuisine)
	assert.Equal(t, 12.50, m.Price)
	assert.Equal(t, meal.DifficultyMed, m.Difficulty)
	assert.Zero(t, m.Battles)
	assert.Zero(t, m.Wins)
	assert.False(t, m.Deleted)
}

func TestMealRepository_CreateRejectsInvalidInput(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "Spaghetti", "Italian", -10.50, meal.DifficultyMed)
	assert.ErrorIs(t, err, meal.ErrInvalidArgument)

	_, err = repo.Create(ctx, "Spaghetti", "Italian", 12.50, meal.Difficulty("EXTREME"))
	assert.ErrorIs(t, err, meal.ErrInvalidArgument)
}

func TestMealRepository_DuplicateName(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "Pizza", "Italian", 10, meal.DifficultyMed)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "Pizza", "Neapolitan", 11, meal.DifficultyLow)
	require.Error(t, err)
	assert.ErrorIs(t, err, meal.ErrAlreadyExists)
}

func TestMealRepository_NameReusableAfterDelete(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, "Pizza", "Italian", 10, meal.DifficultyMed)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, first.ID))

	second, err := repo.Create(ctx, "Pizza", "Italian", 10, meal.DifficultyMed)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := repo.GetByName(ctx, "Pizza")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestMealRepository_DeleteLifecycle(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()

	err := repo.Delete(ctx, 999)
	assert.ErrorIs(t, err, meal.ErrNotFound)

	m, err := repo.Create(ctx, "Tacos", "Mexican", 8, meal.DifficultyLow)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, m.ID))

	err = repo.Delete(ctx, m.ID)
	assert.ErrorIs(t, err, meal.ErrAlreadyDeleted)

	_, err = repo.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, meal.ErrAlreadyDeleted)
	_, err = repo.GetByName(ctx, "Tacos")
	assert.ErrorIs(t, err, meal.ErrAlreadyDeleted)
	err = repo.UpdateStats(ctx, m.ID, meal.OutcomeWin)
	assert.ErrorIs(t, err, meal.ErrAlreadyDeleted)
}

func TestMealRepository_GetNotFound(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, meal.ErrNotFound)
	assert.Contains(t, err.Error(), "999")

	_, err = repo.GetByName(ctx, "Spaghetti Bolognese")
	assert.ErrorIs(t, err, meal.ErrNotFound)
}

func TestMealRepository_UpdateStats(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()

	winner, err := repo.Create(ctx, "Sushi", "Japanese", 15, meal.DifficultyHigh)
	require.NoError(t, err)
	loser, err := repo.Create(ctx, "Spaghetti", "Italian", 12.5, meal.DifficultyMed)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStats(ctx, winner.ID, meal.OutcomeWin))
	require.NoError(t, repo.UpdateStats(ctx, loser.ID, meal.OutcomeLoss))

	got, err := repo.GetByID(ctx, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Battles)
	assert.Equal(t, 1, got.Wins)

	got, err = repo.GetByID(ctx, loser.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Battles)
	assert.Equal(t, 0, got.Wins)

	assert.ErrorIs(t, repo.UpdateStats(ctx, winner.ID, meal.Outcome("draw")), meal.ErrInvalidArgument)
	assert.ErrorIs(t, repo.UpdateStats(ctx, 999, meal.OutcomeWin), meal.ErrNotFound)
}

func TestMealRepository_Leaderboard(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, "A", "Thai", 9, meal.DifficultyLow)
	require.NoError(t, err)
	b, err := repo.Create(ctx, "B", "Thai", 9, meal.DifficultyLow)
	require.NoError(t, err)
	c, err := repo.Create(ctx, "C", "Thai", 9, meal.DifficultyLow)
	require.NoError(t, err)
	gone, err := repo.Create(ctx, "Gone", "Thai", 9, meal.DifficultyLow)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, gone.ID))

	// A: 2 wins of 4; B: 1 win of 1; C: never battled.
	for _, o := range []meal.Outcome{meal.OutcomeWin, meal.OutcomeWin, meal.OutcomeLoss, meal.OutcomeLoss} {
		require.NoError(t, repo.UpdateStats(ctx, a.ID, o))
	}
	require.NoError(t, repo.UpdateStats(ctx, b.ID, meal.OutcomeWin))

	byWins, err := repo.Leaderboard(ctx, meal.SortByWins)
	require.NoError(t, err)
	require.Len(t, byWins, 3)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, []int64{byWins[0].ID, byWins[1].ID, byWins[2].ID})

	byPct, err := repo.Leaderboard(ctx, meal.SortByWinPct)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, a.ID, c.ID}, []int64{byPct[0].ID, byPct[1].ID, byPct[2].ID})
	assert.InDelta(t, 0.5, byPct[1].WinPct, 1e-9)
	assert.Equal(t, 0.0, byPct[2].WinPct)

	_, err = repo.Leaderboard(ctx, meal.SortKey("invalid"))
	assert.ErrorIs(t, err, meal.ErrInvalidArgument)
}

func TestMealRepository_ClearCatalog(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()

	for _, name := range []string{"X", "Y"} {
		_, err := repo.Create(ctx, name, "Fusion", 5, meal.DifficultyMed)
		require.NoError(t, err)
	}

	n, err := repo.ClearCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	meals, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestMealRepository_Ping(t *testing.T) {
	repo := setupMealRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, repo.Ping(ctx))
}

// Property: after n wins and m losses, battles == n+m and wins == n.
func TestPropertyStatsAccumulate(t *testing.T) {
	repo := setupMealRepo(t)
	ctx := context.Background()
	counter := 0

	rapid.Check(t, func(rt *rapid.T) {
		counter++
		m, err := repo.Create(ctx, fmt.Sprintf("meal_%d", counter), "Greek", 7, meal.DifficultyMed)
		if err != nil {
			rt.Fatalf("Create: %v", err)
		}
		outcomes := rapid.SliceOfN(rapid.SampledFrom([]meal.Outcome{meal.OutcomeWin, meal.OutcomeLoss}), 0, 8).Draw(rt, "outcomes")
		wins := 0
		for _, o := range outcomes {
			if o == meal.OutcomeWin {
				wins++
			}
			if err := repo.UpdateStats(ctx, m.ID, o); err != nil {
				rt.Fatalf("UpdateStats: %v", err)
			}
		}
		got, err := repo.GetByID(ctx, m.ID)
		if err != nil {
			rt.Fatalf("GetByID: %v", err)
		}
		if got.Battles != len(outcomes) || got.Wins != wins {
			rt.Fatalf("battles=%d wins=%d, want %d/%d", got.Battles, got.Wins, len(outcomes), wins)
		}
	})
}
