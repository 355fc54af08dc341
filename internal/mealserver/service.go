// Package mealserver exposes the meal catalog and battle engine over gRPC.
package mealserver

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/mealmax/internal/battle"
	"github.com/cory-johannsen/mealmax/internal/meal"
)

// Service implements MealMaxServer on top of a meal store and a battle engine.
//
// Service is safe for concurrent use; engine operations are serialized.
type Service struct {
	store  meal.Store
	logger *zap.Logger

	mu     sync.Mutex
	engine *battle.Engine
}

// NewService creates a Service.
//
// Precondition: store, engine and logger must be non-nil, and engine must
// record stats into store.
// Postcondition: Returns a Service ready to be registered.
func NewService(store meal.Store, engine *battle.Engine, logger *zap.Logger) *Service {
	return &Service{store: store, engine: engine, logger: logger}
}

func (s *Service) respond(method string, out map[string]any, err error) (*structpb.Struct, error) {
	if err != nil {
		code := Code(err)
		fields := []zap.Field{zap.String("method", method), zap.String("code", code.String()), zap.Error(err)}
		if code == codes.Internal {
			s.logger.Error("request failed", fields...)
		} else {
			s.logger.Info("request rejected", fields...)
		}
		return nil, toStatus(err)
	}
	resp, err := toStruct(out)
	if err != nil {
		s.logger.Error("encoding response", zap.String("method", method), zap.Error(err))
		return nil, toStatus(err)
	}
	return resp, nil
}

// CreateMeal adds a meal: {meal, cuisine, price, difficulty} -> meal.
func (s *Service) CreateMeal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := func() (map[string]any, error) {
		name, err := requireString(req, fieldMeal)
		if err != nil {
			return nil, err
		}
		cuisine, err := requireString(req, fieldCuisine)
		if err != nil {
			return nil, err
		}
		price, err := requireNumber(req, fieldPrice)
		if err != nil {
			return nil, err
		}
		difficulty, err := requireString(req, fieldDifficulty)
		if err != nil {
			return nil, err
		}
		m, err := s.store.Create(ctx, name, cuisine, price, meal.Difficulty(difficulty))
		if err != nil {
			return nil, err
		}
		s.logger.Info("meal created", zap.Int64("id", m.ID), zap.String("meal", m.Name))
		return statusOK(map[string]any{fieldMeal: mealValue(m)}), nil
	}()
	return s.respond("CreateMeal", out, err)
}

// DeleteMeal soft-deletes a meal: {id} -> {}.
func (s *Service) DeleteMeal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := func() (map[string]any, error) {
		id, err := requireID(req)
		if err != nil {
			return nil, err
		}
		if err := s.store.Delete(ctx, id); err != nil {
			return nil, err
		}
		s.logger.Info("meal deleted", zap.Int64("id", id))
		return statusOK(nil), nil
	}()
	return s.respond("DeleteMeal", out, err)
}

// GetMealByID fetches an active meal: {id} -> meal.
func (s *Service) GetMealByID(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := func() (map[string]any, error) {
		id, err := requireID(req)
		if err != nil {
			return nil, err
		}
		m, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return statusOK(map[string]any{fieldMeal: mealValue(m)}), nil
	}()
	return s.respond("GetMealByID", out, err)
}

// GetMealByName fetches an active meal: {meal} -> meal.
func (s *Service) GetMealByName(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := func() (map[string]any, error) {
		name, err := requireString(req, fieldMeal)
		if err != nil {
			return nil, err
		}
		m, err := s.store.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		return statusOK(map[string]any{fieldMeal: mealValue(m)}), nil
	}()
	return s.respond("GetMealByName", out, err)
}

// ListMeals returns every active meal ordered by id: {} -> {meals}.
func (s *Service) ListMeals(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := func() (map[string]any, error) {
		meals, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		list := make([]any, len(meals))
		for i, m := range meals {
			list[i] = mealValue(m)
		}
		return statusOK(map[string]any{fieldMeals: list}), nil
	}()
	return s.respond("ListMeals", out, err)
}

// Leaderboard ranks active meals: {sort_by?} -> {leaderboard}. sort_by
// defaults to "wins".
func (s *Service) Leaderboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := func() (map[string]any, error) {
		sortBy, err := optionalString(req, fieldSortBy, string(meal.SortByWins))
		if err != nil {
			return nil, err
		}
		entries, err := s.store.Leaderboard(ctx, meal.SortKey(sortBy))
		if err != nil {
			return nil, err
		}
		list := make([]any, len(entries))
		for i, e := range entries {
			list[i] = leaderboardValue(e)
		}
		return statusOK(map[string]any{fieldLeaderboard: list}), nil
	}()
	return s.respond("Leaderboard", out, err)
}

// PrepCombatant stages the active meal with the given name: {meal} -> {combatants}.
func (s *Service) PrepCombatant(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := func() (map[string]any, error) {
		name, err := requireString(req, fieldMeal)
		if err != nil {
			return nil, err
		}
		m, err := s.store.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.engine.Prepare(m); err != nil {
			return nil, err
		}
		return statusOK(map[string]any{fieldCombatants: s.combatantsValue()}), nil
	}()
	return s.respond("PrepCombatant", out, err)
}

// ClearCombatants empties the combatant slot: {} -> {}.
func (s *Service) ClearCombatants(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	s.mu.Lock()
	s.engine.Clear()
	s.mu.Unlock()
	return s.respond("ClearCombatants", statusOK(nil), nil)
}

// GetCombatants lists staged combatants in preparation order: {} -> {combatants}.
func (s *Service) GetCombatants(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	s.mu.Lock()
	list := s.combatantsValue()
	s.mu.Unlock()
	return s.respond("GetCombatants", statusOK(map[string]any{fieldCombatants: list}), nil)
}

// Battle settles a battle between the staged combatants: {} -> result.
func (s *Service) Battle(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := func() (map[string]any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		r, err := s.engine.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		return statusOK(resultValue(r)), nil
	}()
	return s.respond("Battle", out, err)
}

// ClearCatalog soft-deletes every active meal and empties the combatant
// slot: {} -> {deleted}.
func (s *Service) ClearCatalog(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := func() (map[string]any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		n, err := s.store.ClearCatalog(ctx)
		if err != nil {
			return nil, err
		}
		s.engine.Clear()
		s.logger.Info("catalog cleared", zap.Int64("deleted", n))
		return statusOK(map[string]any{fieldDeleted: n}), nil
	}()
	return s.respond("ClearCatalog", out, err)
}

// combatantsValue must be called with s.mu held.
func (s *Service) combatantsValue() []any {
	cs := s.engine.Combatants()
	list := make([]any, len(cs))
	for i, m := range cs {
		list[i] = mealValue(m)
	}
	return list
}

var _ MealMaxServer = (*Service)(nil)
