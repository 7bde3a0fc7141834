package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/solace/internal/game/dice"
	"github.com/cory-johannsen/solace/internal/game/dice/dicetest"
)

func TestChance_ZeroNeverSucceeds(t *testing.T) {
	assert.False(t, dice.Chance(dicetest.Fixed{Float: 0}, 0))
}

func TestChance_OneAlwaysSucceeds(t *testing.T) {
	assert.True(t, dice.Chance(dicetest.Fixed{Float: 0.999999}, 1))
}

func TestChance_UnderProbability(t *testing.T) {
	assert.True(t, dice.Chance(dicetest.Fixed{Float: 0.69}, 0.7))
	assert.False(t, dice.Chance(dicetest.Fixed{Float: 0.7}, 0.7))
}

func TestUniform_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := rapid.Float64Range(0, 0.999999).Draw(rt, "float")
		v := dice.Uniform(dicetest.Fixed{Float: f}, -0.2, 0.2)
		assert.GreaterOrEqual(rt, v, -0.2)
		assert.Less(rt, v, 0.2)
	})
}

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestRoller_Chance_LogsDraw(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(dicetest.Fixed{Float: 0.1}, zap.New(core))
	assert.True(t, r.Chance("flee", 0.7))
	entries := logs.FilterMessage("chance draw").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "flee", entries[0].ContextMap()["reason"])
	}
}

func TestRoller_Pick_InRange(t *testing.T) {
	r := dice.NewLoggedRoller(dicetest.Fixed{Int: 10}, zap.NewNop())
	assert.Equal(t, 2, r.Pick("drop", 3))
}

func TestSeededSource_Replays(t *testing.T) {
	a, b := dice.NewSeededSource(42), dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000), "draw %d", i)
		assert.Equal(t, a.Float64(), b.Float64(), "draw %d", i)
	}
}

func TestSeededSource_SeedsDiffer(t *testing.T) {
	a, b := dice.NewSeededSource(1), dice.NewSeededSource(2)
	same := true
	for i := 0; i < 20; i++ {
		if a.Intn(1<<30) != b.Intn(1<<30) {
			same = false
		}
	}
	assert.False(t, same)
}

// Property: seeded draws honour the same ranges as the crypto source.
func TestSeededSource_Property_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		n := rapid.IntRange(1, 1000).Draw(rt, "n")
		v := src.Intn(n)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, n)
		f := src.Float64()
		assert.GreaterOrEqual(rt, f, 0.0)
		assert.Less(rt, f, 1.0)
	})
	assert.Panics(t, func() { dice.NewSeededSource(7).Intn(0) })
}
