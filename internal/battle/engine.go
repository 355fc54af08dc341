// Package battle stages two meals and settles a battle between them.
package battle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/meal"
)

// MaxCombatants is the capacity of the combatant slot.
const MaxCombatants = 2

// ErrFull is returned by Prepare when two combatants are already staged.
var ErrFull = errors.New("combatant list is full")

// ErrInsufficientCombatants is returned by Resolve with fewer than two combatants.
var ErrInsufficientCombatants = errors.New("two combatants must be prepared for a battle")

// StatsRecorder is the subset of meal.Store used to persist outcomes.
type StatsRecorder interface {
	UpdateStats(ctx context.Context, id int64, outcome meal.Outcome) error
}

// Source is the subset of random.Source used by the engine.
type Source interface {
	Float64(ctx context.Context) (float64, error)
}

// Announcer observes settled battles. A non-empty message is attached to the
// Result; an error is logged and otherwise ignored.
type Announcer interface {
	Announce(ctx context.Context, r Result) (string, error)
}

// Result is the full record of one settled battle.
type Result struct {
	ID          uuid.UUID
	Winner      meal.Meal
	Loser       meal.Meal
	WinnerScore float64
	LoserScore  float64
	Delta       float64
	Draw        float64
	// Announcements holds messages produced by announcers, in registration order.
	Announcements []string
}

// WinnerName returns the name of the winning meal.
func (r Result) WinnerName() string {
	return r.Winner.Name
}

// Engine holds up to two combatants and settles battles between them.
//
// An Engine is owned by a single caller and is not safe for concurrent use.
type Engine struct {
	store      StatsRecorder
	src        Source
	logger     *zap.Logger
	announcers []Announcer
	combatants []meal.Meal
}

// NewEngine creates an Engine with an empty combatant slot.
//
// Precondition: store, src and logger must be non-nil.
// Postcondition: Returns a non-nil Engine ready for Prepare.
func NewEngine(store StatsRecorder, src Source, logger *zap.Logger, announcers ...Announcer) *Engine {
	return &Engine{
		store:      store,
		src:        src,
		logger:     logger,
		announcers: announcers,
		combatants: make([]meal.Meal, 0, MaxCombatants),
	}
}

// Prepare stages m as the next combatant.
//
// Postcondition: Returns ErrFull when two combatants are staged; otherwise m is appended.
func (e *Engine) Prepare(m meal.Meal) error {
	if len(e.combatants) >= MaxCombatants {
		e.logger.Error("combatant list is full",
			zap.String("meal", m.Name),
		)
		return fmt.Errorf("%w: cannot add %q", ErrFull, m.Name)
	}
	e.combatants = append(e.combatants, m)
	e.logger.Info("combatant prepared",
		zap.String("meal", m.Name),
		zap.Strings("combatants", e.names()),
	)
	return nil
}

// Clear removes every staged combatant.
func (e *Engine) Clear() {
	e.logger.Info("clearing combatants")
	e.combatants = e.combatants[:0]
}

// Combatants returns a copy of the staged combatants in preparation order.
func (e *Engine) Combatants() []meal.Meal {
	out := make([]meal.Meal, len(e.combatants))
	copy(out, e.combatants)
	return out
}

// Resolve settles a battle between the two staged combatants.
//
// The first combatant wins when Delta(score1, score2) is strictly greater than
// the random draw; otherwise the second wins. Stats are written winner first,
// then loser, and the loser is removed from the slot. The returned snapshots
// and the staged winner carry the updated battle and win counts.
//
// The two stat writes are independent: if the loser write fails, the winner
// write stays committed and the slot is left unchanged.
//
// Precondition: two combatants must be staged.
// Postcondition: On success exactly the winner remains staged.
func (e *Engine) Resolve(ctx context.Context) (Result, error) {
	if len(e.combatants) < MaxCombatants {
		e.logger.Error("not enough combatants to start a battle",
			zap.Int("combatants", len(e.combatants)),
		)
		return Result{}, fmt.Errorf("%w: have %d", ErrInsufficientCombatants, len(e.combatants))
	}

	id := uuid.New()
	log := e.logger.With(zap.String("battle_id", id.String()))
	c1, c2 := e.combatants[0], e.combatants[1]
	log.Info("battle started",
		zap.String("combatant_1", c1.Name),
		zap.String("combatant_2", c2.Name),
	)

	s1, err := Score(c1)
	if err != nil {
		return Result{}, fmt.Errorf("scoring %q: %w", c1.Name, err)
	}
	s2, err := Score(c2)
	if err != nil {
		return Result{}, fmt.Errorf("scoring %q: %w", c2.Name, err)
	}
	delta := Delta(s1, s2)

	draw, err := e.src.Float64(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("drawing random threshold: %w", err)
	}
	log.Info("battle scored",
		zap.Float64("score_1", s1),
		zap.Float64("score_2", s2),
		zap.Float64("delta", delta),
		zap.Float64("draw", draw),
	)

	res := Result{ID: id, Delta: delta, Draw: draw}
	if delta > draw {
		res.Winner, res.Loser = c1, c2
		res.WinnerScore, res.LoserScore = s1, s2
	} else {
		res.Winner, res.Loser = c2, c1
		res.WinnerScore, res.LoserScore = s2, s1
	}

	if err := e.store.UpdateStats(ctx, res.Winner.ID, meal.OutcomeWin); err != nil {
		return Result{}, fmt.Errorf("recording win for %q: %w", res.Winner.Name, err)
	}
	if err := e.store.UpdateStats(ctx, res.Loser.ID, meal.OutcomeLoss); err != nil {
		return Result{}, fmt.Errorf("recording loss for %q: %w", res.Loser.Name, err)
	}

	res.Winner.Battles++
	res.Winner.Wins++
	res.Loser.Battles++

	e.combatants = append(e.combatants[:0], res.Winner)
	log.Info("battle won",
		zap.String("winner", res.Winner.Name),
		zap.String("loser", res.Loser.Name),
	)

	res.Announcements = e.announce(ctx, log, res)
	return res, nil
}

func (e *Engine) announce(ctx context.Context, log *zap.Logger, res Result) []string {
	var out []string
	for _, a := range e.announcers {
		msg, err := a.Announce(ctx, res)
		if err != nil {
			log.Warn("battle announcer failed", zap.Error(err))
			continue
		}
		if msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

func (e *Engine) names() []string {
	names := make([]string, len(e.combatants))
	for i, c := range e.combatants {
		names[i] = c.Name
	}
	return names
}
