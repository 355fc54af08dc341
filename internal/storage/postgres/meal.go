package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/mealmax/internal/meal"
)

const mealColumns = `id, meal, cuisine, price, difficulty, battles, wins, deleted`

// MealRepository provides meal persistence operations.
type MealRepository struct {
	db *pgxpool.Pool
}

// NewMealRepository creates a MealRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewMealRepository(db *pgxpool.Pool) *MealRepository {
	return &MealRepository{db: db}
}

func scanMeal(row pgx.Row) (meal.Meal, error) {
	var m meal.Meal
	var difficulty string
	err := row.Scan(&m.ID, &m.Name, &m.Cuisine, &m.Price, &difficulty, &m.Battles, &m.Wins, &m.Deleted)
	m.Difficulty = meal.Difficulty(difficulty)
	return m, err
}

// Create inserts a new meal with zeroed stats.
//
// Precondition: price > 0; difficulty is LOW, MED or HIGH.
// Postcondition: Returns the stored meal with ID set, meal.ErrInvalidArgument
// for bad input, or meal.ErrAlreadyExists when an active meal has the name.
func (r *MealRepository) Create(ctx context.Context, name, cuisine string, price float64, difficulty meal.Difficulty) (meal.Meal, error) {
	if err := meal.ValidateNew(price, difficulty); err != nil {
		return meal.Meal{}, err
	}

	m, err := scanMeal(r.db.QueryRow(ctx, `
		INSERT INTO meals (meal, cuisine, price, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING `+mealColumns,
		name, cuisine, price, string(difficulty),
	))
	if err != nil {
		if isDuplicateKeyError(err) {
			return meal.Meal{}, meal.Exists(name)
		}
		return meal.Meal{}, fmt.Errorf("inserting meal: %w", err)
	}
	return m, nil
}

// Delete soft-deletes the meal with the given id.
//
// Postcondition: The row's deleted flag is set, or meal.ErrNotFound /
// meal.ErrAlreadyDeleted is returned.
func (r *MealRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE meals SET deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT deleted`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissing(ctx, id)
	}
	return nil
}

// GetByID retrieves an active meal by its primary key.
//
// Postcondition: Returns the Meal, meal.ErrNotFound, or meal.ErrAlreadyDeleted.
func (r *MealRepository) GetByID(ctx context.Context, id int64) (meal.Meal, error) {
	m, err := scanMeal(r.db.QueryRow(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return meal.Meal{}, meal.NotFoundID(id)
		}
		return meal.Meal{}, fmt.Errorf("querying meal: %w", err)
	}
	if m.Deleted {
		return meal.Meal{}, meal.DeletedID(id)
	}
	return m, nil
}

// GetByName retrieves the active meal with the given name. When only deleted
// rows carry the name, meal.ErrAlreadyDeleted is returned.
//
// Postcondition: Returns the Meal, meal.ErrNotFound, or meal.ErrAlreadyDeleted.
func (r *MealRepository) GetByName(ctx context.Context, name string) (meal.Meal, error) {
	m, err := scanMeal(r.db.QueryRow(ctx, `
		SELECT `+mealColumns+` FROM meals
		WHERE meal = $1
		ORDER BY deleted ASC, id DESC
		LIMIT 1`,
		name,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return meal.Meal{}, meal.NotFoundName(name)
		}
		return meal.Meal{}, fmt.Errorf("querying meal: %w", err)
	}
	if m.Deleted {
		return meal.Meal{}, meal.DeletedName(name)
	}
	return m, nil
}

// UpdateStats increments battles, and wins when outcome is a win, in one statement.
//
// Postcondition: Returns nil on success, meal.ErrInvalidArgument,
// meal.ErrNotFound, or meal.ErrAlreadyDeleted.
func (r *MealRepository) UpdateStats(ctx context.Context, id int64, outcome meal.Outcome) error {
	if err := meal.ValidateOutcome(outcome); err != nil {
		return err
	}

	winInc := 0
	if outcome == meal.OutcomeWin {
		winInc = 1
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE meals
		SET battles = battles + 1, wins = wins + $2, updated_at = NOW()
		WHERE id = $1 AND NOT deleted`,
		id, winInc,
	)
	if err != nil {
		return fmt.Errorf("updating meal stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissing(ctx, id)
	}
	return nil
}

// Leaderboard ranks every active meal by sortBy, descending, ties by id.
//
// Postcondition: Returns the ranked entries or meal.ErrInvalidArgument.
func (r *MealRepository) Leaderboard(ctx context.Context, sortBy meal.SortKey) ([]meal.LeaderboardEntry, error) {
	if err := meal.ValidateSortKey(sortBy); err != nil {
		return nil, err
	}
	meals, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return meal.Rank(meals, sortBy), nil
}

// List returns every active meal ordered by id.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *MealRepository) List(ctx context.Context) ([]meal.Meal, error) {
	rows, err := r.db.Query(ctx, `SELECT `+mealColumns+` FROM meals WHERE NOT deleted ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	defer rows.Close()

	meals := make([]meal.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning meal row: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// ClearCatalog soft-deletes every active meal.
//
// Postcondition: Returns the number of meals deleted.
func (r *MealRepository) ClearCatalog(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE meals SET deleted = TRUE, updated_at = NOW() WHERE NOT deleted`)
	if err != nil {
		return 0, fmt.Errorf("clearing meals: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping checks database connectivity.
func (r *MealRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// classifyMissing explains why a guarded update touched no row.
func (r *MealRepository) classifyMissing(ctx context.Context, id int64) error {
	var deleted bool
	err := r.db.QueryRow(ctx, `SELECT deleted FROM meals WHERE id = $1`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return meal.NotFoundID(id)
		}
		return fmt.Errorf("checking meal %d: %w", id, err)
	}
	if deleted {
		return meal.DeletedID(id)
	}
	return fmt.Errorf("meal %d changed concurrently", id)
}

var _ meal.Store = (*MealRepository)(nil)
