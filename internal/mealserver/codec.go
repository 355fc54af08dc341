package mealserver

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/mealmax/internal/battle"
	"github.com/cory-johannsen/mealmax/internal/meal"
)

// Request and response field names. "meal" carries a meal's name.
const (
	fieldID            = "id"
	fieldMeal          = "meal"
	fieldCuisine       = "cuisine"
	fieldPrice         = "price"
	fieldDifficulty    = "difficulty"
	fieldBattles       = "battles"
	fieldWins          = "wins"
	fieldWinPct        = "win_pct"
	fieldSortBy        = "sort_by"
	fieldStatus        = "status"
	fieldMeals         = "meals"
	fieldLeaderboard   = "leaderboard"
	fieldCombatants    = "combatants"
	fieldDeleted       = "deleted"
	fieldBattleID      = "battle_id"
	fieldWinner        = "winner"
	fieldLoser         = "loser"
	fieldWinnerScore   = "winner_score"
	fieldLoserScore    = "loser_score"
	fieldDelta         = "delta"
	fieldDraw          = "draw"
	fieldAnnouncements = "announcements"
)

func field(req *structpb.Struct, key string) (*structpb.Value, bool) {
	if req == nil {
		return nil, false
	}
	v, ok := req.GetFields()[key]
	return v, ok
}

func requireString(req *structpb.Struct, key string) (string, error) {
	v, ok := field(req, key)
	if !ok {
		return "", fmt.Errorf("%w: %s is required", meal.ErrInvalidArgument, key)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", meal.ErrInvalidArgument, key)
	}
	return s.StringValue, nil
}

func optionalString(req *structpb.Struct, key, def string) (string, error) {
	if _, ok := field(req, key); !ok {
		return def, nil
	}
	return requireString(req, key)
}

func requireNumber(req *structpb.Struct, key string) (float64, error) {
	v, ok := field(req, key)
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", meal.ErrInvalidArgument, key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", meal.ErrInvalidArgument, key)
	}
	return n.NumberValue, nil
}

func requireID(req *structpb.Struct) (int64, error) {
	n, err := requireNumber(req, fieldID)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
		return 0, fmt.Errorf("%w: id %v must be an integer", meal.ErrInvalidArgument, n)
	}
	return int64(n), nil
}

func mealValue(m meal.Meal) map[string]any {
	return map[string]any{
		fieldID:         m.ID,
		fieldMeal:       m.Name,
		fieldCuisine:    m.Cuisine,
		fieldPrice:      m.Price,
		fieldDifficulty: string(m.Difficulty),
		fieldBattles:    m.Battles,
		fieldWins:       m.Wins,
	}
}

func leaderboardValue(e meal.LeaderboardEntry) map[string]any {
	v := mealValue(e.Meal)
	v[fieldWinPct] = e.WinPct
	return v
}

func resultValue(r battle.Result) map[string]any {
	announcements := make([]any, len(r.Announcements))
	for i, a := range r.Announcements {
		announcements[i] = a
	}
	return map[string]any{
		fieldBattleID:      r.ID.String(),
		fieldWinner:        r.Winner.Name,
		fieldLoser:         r.Loser.Name,
		fieldWinnerScore:   r.WinnerScore,
		fieldLoserScore:    r.LoserScore,
		fieldDelta:         r.Delta,
		fieldDraw:          r.Draw,
		fieldAnnouncements: announcements,
	}
}

func statusOK(extra map[string]any) map[string]any {
	out := map[string]any{fieldStatus: "success"}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return s, nil
}
