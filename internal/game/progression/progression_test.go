package progression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/progression"
)

func TestApplyXP_SingleLevelUpCarriesOverflow(t *testing.T) {
	c := &combatant.Combatant{Level: 5, XP: 480, XPToNextLevel: 500, MaxResource: 100, CurrentResource: 40}
	lu := progression.ApplyXP(c, 30, 10)
	require.NotNil(t, lu)
	assert.Equal(t, 6, c.Level)
	assert.Equal(t, 10, c.XP)
	assert.Equal(t, 600, c.XPToNextLevel)
	assert.Equal(t, 110, c.MaxResource)
	assert.Equal(t, 110, c.CurrentResource)
	assert.Equal(t, &progression.LevelUp{OldLevel: 5, NewLevel: 6, Levels: 1, MaxResourceGain: 10}, lu)
}

func TestApplyXP_NoLevelUp(t *testing.T) {
	c := &combatant.Combatant{Level: 1, XP: 10, XPToNextLevel: 100, MaxResource: 100, CurrentResource: 40}
	assert.Nil(t, progression.ApplyXP(c, 50, 10))
	assert.Equal(t, 60, c.XP)
	assert.Equal(t, 40, c.CurrentResource)
}

func TestApplyXP_MultipleLevelUps(t *testing.T) {
	c := &combatant.Combatant{Level: 1, XPToNextLevel: 100, MaxResource: 100}
	// 100 (1->2) + 200 (2->3) + 300 (3->4) = 600, remainder 50.
	lu := progression.ApplyXP(c, 650, 10)
	require.NotNil(t, lu)
	assert.Equal(t, 4, c.Level)
	assert.Equal(t, 3, lu.Levels)
	assert.Equal(t, 50, c.XP)
	assert.Equal(t, 400, c.XPToNextLevel)
	assert.Equal(t, 130, c.MaxResource)
	assert.Equal(t, 30, lu.MaxResourceGain)
}

func TestApplyXP_NonPositiveAmountIgnored(t *testing.T) {
	c := &combatant.Combatant{Level: 2, XP: 20, XPToNextLevel: 200}
	assert.Nil(t, progression.ApplyXP(c, 0, 10))
	assert.Nil(t, progression.ApplyXP(c, -50, 10))
	assert.Equal(t, 20, c.XP)
}

func TestPropertyApplyXP_LevelsMatchThresholdsCrossed(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(1, 20).Draw(rt, "level")
		threshold := progression.ThresholdFor(level)
		xp := rapid.IntRange(0, threshold-1).Draw(rt, "xp")
		amount := rapid.IntRange(1, 10000).Draw(rt, "amount")
		step := rapid.IntRange(0, 20).Draw(rt, "step")
		c := &combatant.Combatant{Level: level, XP: xp, XPToNextLevel: threshold, MaxResource: 100}

		// Independent count of thresholds crossed.
		wantLevel, remaining := level, xp+amount
		for remaining >= progression.ThresholdFor(wantLevel) {
			remaining -= progression.ThresholdFor(wantLevel)
			wantLevel++
		}

		lu := progression.ApplyXP(c, amount, step)
		if c.Level != wantLevel {
			rt.Fatalf("level = %d, want %d", c.Level, wantLevel)
		}
		if c.XP != remaining || c.XP < 0 || c.XP >= c.XPToNextLevel {
			rt.Fatalf("xp = %d, want %d (< %d)", c.XP, remaining, c.XPToNextLevel)
		}
		if wantLevel == level {
			if lu != nil {
				rt.Fatalf("unexpected level up %+v", lu)
			}
			return
		}
		if lu == nil || lu.Levels != wantLevel-level {
			rt.Fatalf("level up = %+v, want %d levels", lu, wantLevel-level)
		}
		if c.MaxResource != 100+step*lu.Levels || c.CurrentResource != c.MaxResource {
			rt.Fatalf("max=%d current=%d after %d levels", c.MaxResource, c.CurrentResource, lu.Levels)
		}
	})
}
