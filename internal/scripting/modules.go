package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/battle"
	"github.com/cory-johannsen/mealmax/internal/meal"
)

// RegisterModules registers the mealmax.* Lua table into L:
//
//	mealmax.log.debug|info|warn|error(msg)  write to the service logger
//	mealmax.score(price, cuisine, difficulty) -> number | nil, err
//	mealmax.penalty(difficulty) -> number | nil, err
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: mealmax global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	mod := L.NewTable()

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		logFn := fn
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			logFn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(mod, "log", logTbl)

	L.SetField(mod, "score", L.NewFunction(func(L *lua.LState) int {
		s, err := battle.Score(meal.Meal{
			Price:      float64(L.CheckNumber(1)),
			Cuisine:    L.CheckString(2),
			Difficulty: meal.Difficulty(L.CheckString(3)),
		})
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LNumber(s))
		return 1
	}))

	L.SetField(mod, "penalty", L.NewFunction(func(L *lua.LState) int {
		p, err := battle.Penalty(meal.Difficulty(L.CheckString(1)))
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LNumber(p))
		return 1
	}))

	L.SetGlobal("mealmax", mod)
}
