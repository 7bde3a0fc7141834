package combat

import (
	"fmt"

	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/status"
)

// TickResult is the outcome of turn-start status processing.
type TickResult struct {
	Skip   bool
	Events []Event
}

// TickStatuses runs c's turn-start status processing: every status loses a
// turn and those reaching zero expire, then a skip_chance status may skip the
// turn, and otherwise a passive_heal status restores resource.
//
// Precondition: c must not be nil.
// Postcondition: when Skip is true no passive heal was applied.
func (r *Resolver) TickStatuses(c *combatant.Combatant) TickResult {
	var res TickResult

	for _, kind := range c.Statuses.Tick() {
		res.Events = append(res.Events,
			statusExpiredEvent(c, kind),
			narration(fmt.Sprintf("%s is no longer %s.", c.Name, r.statusName(kind))),
		)
	}

	if def, ok := c.Statuses.WithBehavior(status.BehaviorSkipChance); ok {
		if r.roller.Chance("skip "+string(def.Kind), def.Chance) {
			res.Skip = true
			res.Events = append(res.Events, narration(fmt.Sprintf("%s is too %s to act and the turn slips by.", c.Name, lower(def.Name))))
			return res
		}
	}

	if def, ok := c.Statuses.WithBehavior(status.BehaviorPassiveHeal); ok {
		amount := def.Amount
		if amount == 0 {
			amount = r.rules.PassiveHealAmount
		}
		restored := c.Restore(amount)
		res.Events = append(res.Events,
			healEvent(c, restored),
			narration(fmt.Sprintf("Feeling %s, %s recovers %d.", lower(def.Name), c.Name, restored)),
		)
	}
	return res
}
