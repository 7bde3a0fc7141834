package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.log and engine.dice tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn("lua: " + L.CheckString(1))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()

	// chance(p) -> bool
	L.SetField(mod, "chance", L.NewFunction(func(L *lua.LState) int {
		p := float64(L.CheckNumber(1))
		L.Push(lua.LBool(m.roller.Chance("lua chance", p)))
		return 1
	}))

	// between(lo, hi) -> int in [lo, hi]
	L.SetField(mod, "between", L.NewFunction(func(L *lua.LState) int {
		lo, hi := L.CheckInt(1), L.CheckInt(2)
		if hi < lo {
			lo, hi = hi, lo
		}
		L.Push(lua.LNumber(lo + m.roller.Pick("lua between", hi-lo+1)))
		return 1
	}))

	// pick(list) -> one element, or nil for an empty list
	L.SetField(mod, "pick", L.NewFunction(func(L *lua.LState) int {
		t := L.CheckTable(1)
		n := t.Len()
		if n == 0 {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(t.RawGetInt(1 + m.roller.Pick("lua pick", n)))
		return 1
	}))
	return mod
}
