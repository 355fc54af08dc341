// Package importer loads meal seed files into a meal store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/meal"
)

// Creator is the subset of meal.Store used for seeding.
type Creator interface {
	Create(ctx context.Context, name, cuisine string, price float64, difficulty meal.Difficulty) (meal.Meal, error)
}

// Report summarizes one import run.
type Report struct {
	Created int
	// Skipped counts seeds whose name already belongs to an active meal.
	Skipped int
}

// Importer orchestrates seed import from a Source into a store.
type Importer struct {
	source Source
	store  Creator
	logger *zap.Logger
}

// New constructs an Importer.
//
// Precondition: source, store and logger must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, store Creator, logger *zap.Logger) *Importer {
	return &Importer{source: source, store: store, logger: logger}
}

// Run loads seeds from path, validates all of them, then creates each one.
// Seeds whose name is already active are skipped, so re-running an import is
// harmless.
//
// Precondition: path must satisfy the source's layout requirements.
// Postcondition: if any seed is invalid nothing is written and the error names
// the seed's position; otherwise every valid seed is created or skipped.
func (imp *Importer) Run(ctx context.Context, path string) (Report, error) {
	overall := time.Now()

	raw, err := imp.source.Load(path)
	if err != nil {
		return Report{}, fmt.Errorf("loading source: %w", err)
	}

	seeds := make([]Seed, 0, len(raw))
	for i, s := range raw {
		n, err := Normalize(s)
		if err != nil {
			return Report{}, fmt.Errorf("seed %d (%q): %w", i+1, s.Name, err)
		}
		seeds = append(seeds, n)
	}
	imp.logger.Info("seeds loaded", zap.String("path", path), zap.Int("count", len(seeds)))

	var rep Report
	for _, s := range seeds {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		m, err := imp.store.Create(ctx, s.Name, s.Cuisine, s.Price, meal.Difficulty(s.Difficulty))
		switch {
		case errors.Is(err, meal.ErrAlreadyExists):
			rep.Skipped++
			imp.logger.Info("meal already exists, skipping", zap.String("meal", s.Name))
		case err != nil:
			return rep, fmt.Errorf("creating meal %q: %w", s.Name, err)
		default:
			rep.Created++
			imp.logger.Debug("meal created", zap.String("meal", m.Name), zap.Int64("id", m.ID))
		}
	}

	imp.logger.Info("import complete",
		zap.Int("created", rep.Created),
		zap.Int("skipped", rep.Skipped),
		zap.Duration("elapsed", time.Since(overall)),
	)
	return rep, nil
}
