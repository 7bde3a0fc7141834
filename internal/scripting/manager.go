package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/game/dice"
)

// NarrationInfo is the battle snapshot passed to narration hooks.
type NarrationInfo struct {
	PlayerID     string
	PlayerName   string
	PlayerLevel  int
	OpponentID   string
	OpponentName string
	Outcome      string
	DropID       string
}

// Manager owns one sandboxed LState loaded from a script directory and
// dispatches narration hooks into it.
//
// Manager is safe for concurrent use; calls into the LState are serialised.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	budget *Budget
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager; panics on nil arguments.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{roller: roller, logger: logger}
}

// Load creates a new sandboxed VM, registers the engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order. Each file
// and each later hook call gets instLimit opcodes.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: on success the new VM replaces any previously loaded one;
// on error the previous VM stays in place.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	L, budget := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		budget.Refill()
		if err := L.DoFile(path); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		m.state.Close()
	}
	m.state = L
	m.budget = budget
	m.mu.Unlock()

	m.logger.Info("scripting: loaded", zap.String("dir", scriptDir), zap.Int("files", len(luaFiles)))
	return nil
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if the
// hook is not defined or no scripts are loaded. Lua runtime errors, including
// an exhausted instruction budget, are logged at Warn level and never
// propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		m.logger.Debug("scripting: no scripts loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	return m.callLocked(hook, args...), nil
}

// Narrate calls the opponent-specific hook "<OpponentID>_<hook>" if defined,
// otherwise the generic hook, and returns the narration lines it produced.
// A hook may return a string or an array of strings; anything else yields no lines.
func (m *Manager) Narrate(hook string, info NarrationInfo) []string {
	names := []string{hook}
	if info.OpponentID != "" {
		names = []string{info.OpponentID + "_" + hook, hook}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil
	}
	for _, name := range names {
		if m.state.GetGlobal(name) == lua.LNil {
			continue
		}
		return linesFrom(m.callLocked(name, infoTable(m.state, info)))
	}
	return nil
}

// callLocked runs hook with a fresh instruction budget.
// Precondition: m.mu is held and m.state is non-nil.
func (m *Manager) callLocked(hook string, args ...lua.LValue) lua.LValue {
	L := m.state
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}

	m.budget.Refill()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret
}

// Close releases the VM.
//
// Postcondition: later CallHook and Narrate calls are no-ops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return
	}
	m.state.Close()
	m.state = nil
	m.budget = nil
}

func infoTable(L *lua.LState, info NarrationInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("player_id", lua.LString(info.PlayerID))
	t.RawSetString("player_name", lua.LString(info.PlayerName))
	t.RawSetString("player_level", lua.LNumber(info.PlayerLevel))
	t.RawSetString("opponent_id", lua.LString(info.OpponentID))
	t.RawSetString("opponent_name", lua.LString(info.OpponentName))
	t.RawSetString("outcome", lua.LString(info.Outcome))
	t.RawSetString("drop_id", lua.LString(info.DropID))
	return t
}

func linesFrom(v lua.LValue) []string {
	switch val := v.(type) {
	case lua.LString:
		if val == "" {
			return nil
		}
		return []string{string(val)}
	case *lua.LTable:
		var out []string
		for i := 1; i <= val.Len(); i++ {
			if s, ok := val.RawGetInt(i).(lua.LString); ok && s != "" {
				out = append(out, string(s))
			}
		}
		return out
	default:
		return nil
	}
}
