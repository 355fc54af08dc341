// Package meal defines the Meal record, its validation rules, and the storage
// contract shared by every persistence backend.
package meal

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Difficulty is the preparation difficulty label of a meal.
type Difficulty string

// Recognised difficulty labels.
const (
	DifficultyLow  Difficulty = "LOW"
	DifficultyMed  Difficulty = "MED"
	DifficultyHigh Difficulty = "HIGH"
)

// Valid reports whether d is one of LOW, MED, HIGH.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyLow, DifficultyMed, DifficultyHigh:
		return true
	}
	return false
}

// Outcome is the result of a battle from one combatant's point of view.
type Outcome string

// Battle outcomes accepted by Store.UpdateStats.
const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// Valid reports whether o is win or loss.
func (o Outcome) Valid() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

// SortKey selects the leaderboard ranking metric.
type SortKey string

// Leaderboard ranking metrics.
const (
	SortByWins   SortKey = "wins"
	SortByWinPct SortKey = "win_pct"
)

// Valid reports whether k is wins or win_pct.
func (k SortKey) Valid() bool {
	return k == SortByWins || k == SortByWinPct
}

// Meal is a full snapshot of a persisted meal record.
type Meal struct {
	ID         int64
	Name       string
	Cuisine    string
	Price      float64
	Difficulty Difficulty
	Battles    int
	Wins       int
	Deleted    bool
}

// WinPct returns Wins/Battles, or 0 when the meal has never battled.
//
// Postcondition: Returns a value in [0, 1] when Wins <= Battles.
func (m Meal) WinPct() float64 {
	if m.Battles == 0 {
		return 0
	}
	return float64(m.Wins) / float64(m.Battles)
}

// LeaderboardEntry is a ranked meal with its derived win percentage.
type LeaderboardEntry struct {
	Meal
	WinPct float64
}

// Store is the persistence contract for meal records.
//
// Deleted records are invisible to every read and update except the
// existence checks that distinguish ErrNotFound from ErrAlreadyDeleted.
type Store interface {
	// Create persists a new meal with zeroed stats.
	Create(ctx context.Context, name, cuisine string, price float64, difficulty Difficulty) (Meal, error)
	// Delete soft-deletes the meal with the given id.
	Delete(ctx context.Context, id int64) error
	// GetByID returns the active meal with the given id.
	GetByID(ctx context.Context, id int64) (Meal, error)
	// GetByName returns the active meal with the given name.
	GetByName(ctx context.Context, name string) (Meal, error)
	// UpdateStats records one battle outcome for the meal.
	UpdateStats(ctx context.Context, id int64, outcome Outcome) error
	// Leaderboard ranks every active meal by sortBy, descending.
	Leaderboard(ctx context.Context, sortBy SortKey) ([]LeaderboardEntry, error)
	// List returns every active meal ordered by id.
	List(ctx context.Context) ([]Meal, error)
	// ClearCatalog soft-deletes every active meal and reports how many changed.
	ClearCatalog(ctx context.Context) (int64, error)
}

// ValidateNew checks the creation invariants for a meal.
//
// Postcondition: Returns nil, or an error wrapping ErrInvalidArgument that
// names the offending value.
func ValidateNew(price float64, difficulty Difficulty) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return fmt.Errorf("%w: price %v must be a positive number", ErrInvalidArgument, price)
	}
	if !difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q must be one of LOW, MED, HIGH", ErrInvalidArgument, string(difficulty))
	}
	return nil
}

// ValidateOutcome returns an ErrInvalidArgument error for anything but win or loss.
func ValidateOutcome(outcome Outcome) error {
	if !outcome.Valid() {
		return fmt.Errorf("%w: outcome %q must be win or loss", ErrInvalidArgument, string(outcome))
	}
	return nil
}

// ValidateSortKey returns an ErrInvalidArgument error for anything but wins or win_pct.
func ValidateSortKey(key SortKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: sort_by %q must be wins or win_pct", ErrInvalidArgument, string(key))
	}
	return nil
}

// Rank builds a leaderboard from active meals.
//
// Entries are ordered by the requested metric, descending. Equal metrics keep
// ascending id order.
//
// Precondition: key must be valid (see ValidateSortKey).
// Postcondition: len(result) == len(meals); meals is not modified.
func Rank(meals []Meal, key SortKey) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(meals))
	for i, m := range meals {
		entries[i] = LeaderboardEntry{Meal: m, WinPct: m.WinPct()}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch key {
		case SortByWinPct:
			if a.WinPct != b.WinPct {
				return a.WinPct > b.WinPct
			}
		default:
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
		}
		return a.ID < b.ID
	})
	return entries
}
