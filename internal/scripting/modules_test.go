package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/solace/internal/game/dice"
	"github.com/cory-johannsen/solace/internal/game/dice/dicetest"
	"github.com/cory-johannsen/solace/internal/scripting"
)

func runScript(t *testing.T, mgr *scripting.Manager, luaSrc, hook string, args ...lua.LValue) lua.LValue {
	t.Helper()
	require.NoError(t, mgr.Load(writeTempLua(t, "test.lua", luaSrc), 0))
	ret, err := mgr.CallHook(hook, args...)
	require.NoError(t, err)
	return ret
}

func scriptedManager(t *testing.T, src dice.Source) *scripting.Manager {
	t.Helper()
	mgr := scripting.NewManager(dice.NewLoggedRoller(src, zap.NewNop()), zap.NewNop())
	t.Cleanup(mgr.Close)
	return mgr
}

func TestEngineLog_AllLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop()), logger)
	t.Cleanup(mgr.Close)

	runScript(t, mgr, `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_all_logs")

	levels := map[string]bool{}
	for _, e := range logs.FilterMessageSnippet("lua: ").All() {
		levels[e.Level.String()] = true
	}
	assert.True(t, levels["debug"], "expected debug log")
	assert.True(t, levels["info"], "expected info log")
	assert.True(t, levels["warn"], "expected warn log")
	assert.True(t, levels["error"], "expected error log")
}

func TestEngineDice_Chance(t *testing.T) {
	mgr := scriptedManager(t, dicetest.Fixed{Float: 0.3})
	src := `function roll(p) return engine.dice.chance(p) end`
	assert.Equal(t, lua.LTrue, runScript(t, mgr, src, "roll", lua.LNumber(0.5)))
	assert.Equal(t, lua.LFalse, runScript(t, mgr, src, "roll", lua.LNumber(0.2)))
}

func TestEngineDice_Pick(t *testing.T) {
	mgr := scriptedManager(t, dicetest.Fixed{Int: 1})
	ret := runScript(t, mgr, `
		function choose() return engine.dice.pick({"a", "b", "c"}) end
	`, "choose")
	assert.Equal(t, lua.LString("b"), ret)
}

func TestEngineDice_Pick_EmptyListIsNil(t *testing.T) {
	mgr := scriptedManager(t, dicetest.Fixed{})
	assert.Equal(t, lua.LNil, runScript(t, mgr, `function choose() return engine.dice.pick({}) end`, "choose"))
}

func TestProperty_DiceBetween_StaysInRange(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load(writeTempLua(t, "b.lua", `function between(lo, hi) return engine.dice.between(lo, hi) end`), 0))
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := rapid.IntRange(-50, 50).Draw(rt, "hi")
		ret, err := mgr.CallHook("between", lua.LNumber(lo), lua.LNumber(hi))
		if err != nil {
			rt.Fatalf("CallHook: %v", err)
		}
		n, ok := ret.(lua.LNumber)
		if !ok {
			rt.Fatalf("expected number, got %T", ret)
		}
		minV, maxV := min(lo, hi), max(lo, hi)
		if int(n) < minV || int(n) > maxV {
			rt.Fatalf("between(%d, %d) = %d", lo, hi, int(n))
		}
	})
}
