// Package sqlite provides a single-file SQLite meal store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/cory-johannsen/mealmax/internal/meal"
	"github.com/cory-johannsen/mealmax/internal/storage/sqlite/migrations"
)

const mealColumns = `id, meal, cuisine, price, difficulty, battles, wins, deleted`

// Store persists meals in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) a SQLite meal store and applies embedded migrations.
//
// Precondition: path must be non-empty; ":memory:" is not supported because
// each pooled connection would see its own database.
// Postcondition: Returns a migrated Store or a non-nil error.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows one writer; a single connection serializes writes in-process.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrateUp(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// migrateUp applies the embedded migrations through golang-migrate. The
// migrator is not closed: closing its database driver would close sqlDB.
func migrateUp(sqlDB *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return src.Close()
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping checks that the database file is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeal(row rowScanner) (meal.Meal, error) {
	var m meal.Meal
	var difficulty string
	err := row.Scan(&m.ID, &m.Name, &m.Cuisine, &m.Price, &difficulty, &m.Battles, &m.Wins, &m.Deleted)
	m.Difficulty = meal.Difficulty(difficulty)
	return m, err
}

// Create inserts a new meal with zeroed stats.
//
// Postcondition: Returns the stored meal with ID set, meal.ErrInvalidArgument
// for bad input, or meal.ErrAlreadyExists when an active meal has the name.
func (s *Store) Create(ctx context.Context, name, cuisine string, price float64, difficulty meal.Difficulty) (meal.Meal, error) {
	if err := meal.ValidateNew(price, difficulty); err != nil {
		return meal.Meal{}, err
	}
	now := nowMillis()
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO meals (meal, cuisine, price, difficulty, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, cuisine, price, string(difficulty), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return meal.Meal{}, meal.Exists(name)
		}
		return meal.Meal{}, fmt.Errorf("insert meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return meal.Meal{}, fmt.Errorf("read meal id: %w", err)
	}
	return meal.Meal{ID: id, Name: name, Cuisine: cuisine, Price: price, Difficulty: difficulty}, nil
}

// Delete soft-deletes the meal with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE meals SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`,
		nowMillis(), id,
	)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return s.checkAffected(ctx, res, id)
}

// GetByID returns the active meal with the given id.
func (s *Store) GetByID(ctx context.Context, id int64) (meal.Meal, error) {
	m, err := scanMeal(s.sqlDB.QueryRowContext(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return meal.Meal{}, meal.NotFoundID(id)
		}
		return meal.Meal{}, fmt.Errorf("get meal: %w", err)
	}
	if m.Deleted {
		return meal.Meal{}, meal.DeletedID(id)
	}
	return m, nil
}

// GetByName returns the active meal with the given name, falling back to the
// newest deleted row to report meal.ErrAlreadyDeleted.
func (s *Store) GetByName(ctx context.Context, name string) (meal.Meal, error) {
	m, err := scanMeal(s.sqlDB.QueryRowContext(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE meal = ? ORDER BY deleted ASC, id DESC LIMIT 1`,
		name,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return meal.Meal{}, meal.NotFoundName(name)
		}
		return meal.Meal{}, fmt.Errorf("get meal: %w", err)
	}
	if m.Deleted {
		return meal.Meal{}, meal.DeletedName(name)
	}
	return m, nil
}

// UpdateStats increments battles, and wins on a win, in one statement.
func (s *Store) UpdateStats(ctx context.Context, id int64, outcome meal.Outcome) error {
	if err := meal.ValidateOutcome(outcome); err != nil {
		return err
	}
	winInc := 0
	if outcome == meal.OutcomeWin {
		winInc = 1
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE meals SET battles = battles + 1, wins = wins + ?, updated_at = ?
		 WHERE id = ? AND deleted = 0`,
		winInc, nowMillis(), id,
	)
	if err != nil {
		return fmt.Errorf("update meal stats: %w", err)
	}
	return s.checkAffected(ctx, res, id)
}

// Leaderboard ranks every active meal by sortBy, descending, ties by id.
func (s *Store) Leaderboard(ctx context.Context, sortBy meal.SortKey) ([]meal.LeaderboardEntry, error) {
	if err := meal.ValidateSortKey(sortBy); err != nil {
		return nil, err
	}
	meals, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return meal.Rank(meals, sortBy), nil
}

// List returns every active meal ordered by id.
func (s *Store) List(ctx context.Context) ([]meal.Meal, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+mealColumns+` FROM meals WHERE deleted = 0 ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	meals := make([]meal.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return meals, nil
}

// ClearCatalog soft-deletes every active meal and returns the count.
func (s *Store) ClearCatalog(ctx context.Context) (int64, error) {
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE meals SET deleted = 1, updated_at = ? WHERE deleted = 0`, nowMillis())
	if err != nil {
		return 0, fmt.Errorf("clear meals: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear meals: %w", err)
	}
	return n, nil
}

// checkAffected maps a guarded update that touched no row to
// meal.ErrNotFound or meal.ErrAlreadyDeleted.
func (s *Store) checkAffected(ctx context.Context, res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	var deleted bool
	err = s.sqlDB.QueryRowContext(ctx, `SELECT deleted FROM meals WHERE id = ?`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return meal.NotFoundID(id)
		}
		return fmt.Errorf("check meal %d: %w", id, err)
	}
	if deleted {
		return meal.DeletedID(id)
	}
	return fmt.Errorf("meal %d changed concurrently", id)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ meal.Store = (*Store)(nil)
