package scripting

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/mealmax/internal/battle"
	"github.com/cory-johannsen/mealmax/internal/meal"
)

// BattleHook is the Lua global invoked after every settled battle.
const BattleHook = "on_battle"

// Announcer adapts a Manager to battle.Announcer by calling on_battle(result).
//
// The result table has the fields id, winner, loser, winner_score,
// loser_score, delta and draw; winner and loser are meal tables with id,
// name, cuisine, price, difficulty, battles and wins. A string return value
// becomes the announcement; anything else is ignored.
type Announcer struct {
	mgr *Manager
}

// NewAnnouncer wraps mgr.
//
// Precondition: mgr must be non-nil.
func NewAnnouncer(mgr *Manager) *Announcer {
	return &Announcer{mgr: mgr}
}

// Announce implements battle.Announcer.
func (a *Announcer) Announce(ctx context.Context, r battle.Result) (string, error) {
	ret, err := a.mgr.CallHookWith(ctx, BattleHook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{resultTable(L, r)}
	})
	if err != nil {
		return "", err
	}
	if s, ok := ret.(lua.LString); ok {
		return string(s), nil
	}
	return "", nil
}

func resultTable(L *lua.LState, r battle.Result) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(r.ID.String()))
	L.SetField(t, "winner", mealTable(L, r.Winner))
	L.SetField(t, "loser", mealTable(L, r.Loser))
	L.SetField(t, "winner_score", lua.LNumber(r.WinnerScore))
	L.SetField(t, "loser_score", lua.LNumber(r.LoserScore))
	L.SetField(t, "delta", lua.LNumber(r.Delta))
	L.SetField(t, "draw", lua.LNumber(r.Draw))
	return t
}

func mealTable(L *lua.LState, m meal.Meal) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LNumber(m.ID))
	L.SetField(t, "name", lua.LString(m.Name))
	L.SetField(t, "cuisine", lua.LString(m.Cuisine))
	L.SetField(t, "price", lua.LNumber(m.Price))
	L.SetField(t, "difficulty", lua.LString(string(m.Difficulty)))
	L.SetField(t, "battles", lua.LNumber(m.Battles))
	L.SetField(t, "wins", lua.LNumber(m.Wins))
	return t
}

var _ battle.Announcer = (*Announcer)(nil)
