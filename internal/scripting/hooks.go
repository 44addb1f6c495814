package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// UnitInfo is a snapshot of a unit's state passed to Lua callbacks.
type UnitInfo struct {
	ID        string
	Name      string
	Archetype string
	Team      string
	Health    int
	MaxHealth int
	X         int
	Y         int
}

// Hooks owns one sandboxed LState for battle scripts and exposes hook
// dispatch. A missing hook is not an error; Lua runtime failures are
// logged and absorbed.
//
// Hooks serializes all VM access; the LState itself is single-threaded.
type Hooks struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel func()
	logger *zap.Logger

	// Injected after construction. nil = no-op in the game.* module.
	GetUnit  func(id string) *UnitInfo
	HealUnit func(id string, amount int) error
	Log      func(msg string)
}

// NewHooks creates a Hooks host with an empty sandboxed VM.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 = default).
func NewHooks(logger *zap.Logger, instLimit int) *Hooks {
	if logger == nil {
		panic("scripting.NewHooks: logger must not be nil")
	}
	L, cancel := NewSandboxedState(instLimit)
	h := &Hooks{state: L, cancel: cancel, logger: logger}
	h.registerGameModule()
	return h
}

// Close releases the VM.
func (h *Hooks) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
	}
	h.state.Close()
}

// LoadDir executes every *.lua file in dir in lexicographic order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns error on the first Lua load failure.
func (h *Hooks) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, path := range files {
		if err := h.state.DoFile(path); err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	return nil
}

// LoadString executes a script from source, for tests and inline content.
func (h *Hooks) LoadString(src string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.state.DoString(src); err != nil {
		return fmt.Errorf("scripting: loading inline script: %w", err)
	}
	return nil
}

// Call invokes the named global Lua function with args.
//
// Postcondition: Returns (LNil, nil) when the hook is not defined; Lua
// runtime errors are logged as warnings and absorbed, returning LNil.
func (h *Hooks) Call(hook string, args ...lua.LValue) (lua.LValue, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn := h.state.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	if err := h.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		h.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := h.state.Get(-1)
	h.state.Pop(1)
	return ret, nil
}

// UnitTable converts a UnitInfo snapshot into a Lua table.
func (h *Hooks) UnitTable(info *UnitInfo) *lua.LTable {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unitTable(info)
}

func (h *Hooks) unitTable(info *UnitInfo) *lua.LTable {
	t := h.state.NewTable()
	t.RawSetString("id", lua.LString(info.ID))
	t.RawSetString("name", lua.LString(info.Name))
	t.RawSetString("archetype", lua.LString(info.Archetype))
	t.RawSetString("team", lua.LString(info.Team))
	t.RawSetString("health", lua.LNumber(info.Health))
	t.RawSetString("max_health", lua.LNumber(info.MaxHealth))
	t.RawSetString("x", lua.LNumber(info.X))
	t.RawSetString("y", lua.LNumber(info.Y))
	return t
}

// registerGameModule installs the game.* table: get_unit, heal, log.
// Callbacks left nil behave as no-ops returning nil.
func (h *Hooks) registerGameModule() {
	mod := h.state.NewTable()

	mod.RawSetString("get_unit", h.state.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if h.GetUnit == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := h.GetUnit(id)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(h.unitTable(info))
		return 1
	}))

	mod.RawSetString("heal", h.state.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		amount := L.CheckInt(2)
		if h.HealUnit == nil {
			L.Push(lua.LBool(false))
			return 1
		}
		if err := h.HealUnit(id, amount); err != nil {
			L.Push(lua.LBool(false))
			return 1
		}
		L.Push(lua.LBool(true))
		return 1
	}))

	mod.RawSetString("log", h.state.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if h.Log != nil {
			h.Log(msg)
		}
		return 0
	}))

	h.state.SetGlobal("game", mod)
}
