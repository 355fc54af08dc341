package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Manager owns one sandboxed LState loaded from a script directory and
// dispatches named hooks into it.
//
// Manager is safe for concurrent use; hook calls are serialized because an
// LState is single-threaded.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Load creates a sandboxed VM, registers the mealmax.* module, then executes
// every *.lua file in scriptDir in lexicographic order. A previously loaded
// VM is replaced only when the new one loads cleanly.
//
// Precondition: scriptDir must be a readable directory; instLimit >= 0.
// Postcondition: Returns an error naming the failing file on load failure.
func (m *Manager) Load(ctx context.Context, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState()
	m.RegisterModules(L)
	for _, path := range luaFiles {
		err := RunLimited(ctx, L, instLimit, func() error { return L.DoFile(path) })
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	old := m.L
	m.L = L
	m.limit = instLimit
	m.mu.Unlock()
	if old != nil {
		old.Close()
	}

	m.logger.Info("scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if no
// scripts are loaded or the hook is not defined. Lua runtime errors,
// including an exhausted instruction budget, are logged at Warn level and
// never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(ctx context.Context, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.CallHookWith(ctx, hook, func(*lua.LState) []lua.LValue { return args })
}

// CallHookWith behaves like CallHook but builds the arguments on the live
// state, so callers can pass tables.
//
// Precondition: build must be non-nil.
func (m *Manager) CallHookWith(ctx context.Context, hook string, build func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.L == nil {
		m.logger.Debug("scripting: no scripts loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	L := m.L

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	var ret lua.LValue = lua.LNil
	err := RunLimited(ctx, L, m.limit, func() error {
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, build(L)...); err != nil {
			return err
		}
		ret = L.Get(-1)
		L.Pop(1)
		return nil
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	return ret, nil
}

// Close releases the loaded VM, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}
