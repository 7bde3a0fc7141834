// Package combatant defines the player and opponent records a battle operates on.
package combatant

import (
	"github.com/cory-johannsen/solace/internal/game/status"
)

// Combatant is one side of a battle.
//
// Invariant: 0 <= CurrentResource <= MaxResource whenever mutated through
// Damage, Restore or SetResource.
type Combatant struct {
	ID              string
	Name            string
	Level           int
	XP              int
	XPToNextLevel   int
	MaxResource     int
	CurrentResource int
	Moves           []Move
	// Statuses is battle-scoped; it is cleared at battle start and end.
	Statuses status.ActiveSet
}

// NewPlayer returns a level-1 player combatant at full resource.
//
// Precondition: id and name must be non-empty; maxResource must be > 0.
// Postcondition: Level == 1, XP == 0, XPToNextLevel == 100, CurrentResource == MaxResource.
func NewPlayer(id, name string, maxResource int, moves []Move) *Combatant {
	return &Combatant{
		ID:              id,
		Name:            name,
		Level:           1,
		XPToNextLevel:   100,
		MaxResource:     maxResource,
		CurrentResource: maxResource,
		Moves:           append([]Move(nil), moves...),
	}
}

// Damage reduces CurrentResource by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: CurrentResource >= 0. Returns the amount actually removed.
func (c *Combatant) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > c.CurrentResource {
		amount = c.CurrentResource
	}
	c.CurrentResource -= amount
	return amount
}

// Restore increases CurrentResource by amount, capping at MaxResource.
//
// Precondition: amount must be >= 0.
// Postcondition: CurrentResource <= MaxResource. Returns the amount actually restored.
func (c *Combatant) Restore(amount int) int {
	if amount <= 0 {
		return 0
	}
	if room := c.MaxResource - c.CurrentResource; amount > room {
		amount = room
	}
	if amount < 0 {
		amount = 0
	}
	c.CurrentResource += amount
	return amount
}

// SetResource sets CurrentResource to v clamped into [0, MaxResource].
func (c *Combatant) SetResource(v int) {
	switch {
	case v < 0:
		v = 0
	case v > c.MaxResource:
		v = c.MaxResource
	}
	c.CurrentResource = v
}

// IsDepleted reports whether the combatant's resource has run out.
func (c *Combatant) IsDepleted() bool { return c.CurrentResource <= 0 }

// Clone returns a deep copy of c. Moves and Statuses are not shared.
//
// Precondition: c must not be nil.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	cp.Moves = append([]Move(nil), c.Moves...)
	cp.Statuses = c.Statuses.Clone()
	return &cp
}
