// Package progression computes experience gain and level-ups.
package progression

import "github.com/cory-johannsen/solace/internal/game/combatant"

// ThresholdFor returns the XP needed to advance from level.
//
// Postcondition: Returns level * 100, or 100 for levels below 1.
func ThresholdFor(level int) int {
	if level < 1 {
		return 100
	}
	return level * 100
}

// LevelUp describes the result of one ApplyXP call that crossed at least one threshold.
type LevelUp struct {
	OldLevel        int
	NewLevel        int
	Levels          int
	MaxResourceGain int
}

// ApplyXP adds amount to c.XP and processes every level threshold crossed.
// For each crossed threshold c loses the threshold XP, gains a level, gains
// step MaxResource and is fully restored.
//
// Precondition: c must not be nil; step must be >= 0.
// Postcondition: 0 <= c.XP < c.XPToNextLevel. Returns nil when amount <= 0
// or no threshold was crossed.
func ApplyXP(c *combatant.Combatant, amount, step int) *LevelUp {
	if amount <= 0 {
		return nil
	}
	if c.XPToNextLevel <= 0 {
		c.XPToNextLevel = ThresholdFor(c.Level)
	}
	c.XP += amount

	old := c.Level
	gained := 0
	for c.XP >= c.XPToNextLevel {
		c.XP -= c.XPToNextLevel
		c.Level++
		c.MaxResource += step
		gained += step
		c.CurrentResource = c.MaxResource
		c.XPToNextLevel = ThresholdFor(c.Level)
	}
	if c.Level == old {
		return nil
	}
	return &LevelUp{
		OldLevel:        old,
		NewLevel:        c.Level,
		Levels:          c.Level - old,
		MaxResourceGain: gained,
	}
}
