package combat

import (
	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/status"
)

// EventKind distinguishes the entries of a battle's event stream.
type EventKind int

const (
	EventNarration EventKind = iota + 1
	EventDamage
	EventHeal
	EventStatusApplied
	EventStatusExpired
	EventLevelUp
	EventDropFound
	EventBattleEnded
	EventStateChanged
	EventTimingRequested
)

// String returns the event kind label.
func (k EventKind) String() string {
	switch k {
	case EventNarration:
		return "narration"
	case EventDamage:
		return "damage"
	case EventHeal:
		return "heal"
	case EventStatusApplied:
		return "statusApplied"
	case EventStatusExpired:
		return "statusExpired"
	case EventLevelUp:
		return "levelUp"
	case EventDropFound:
		return "dropFound"
	case EventBattleEnded:
		return "battleEnded"
	case EventStateChanged:
		return "stateChanged"
	case EventTimingRequested:
		return "timingRequested"
	default:
		return "unknown"
	}
}

// Event is one entry of the ordered stream consumed by presentation.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind
	// TargetID and TargetName identify the affected combatant.
	TargetID   string
	TargetName string
	Text       string
	Amount     int
	Critical   bool
	Status     status.Kind
	Level      int
	DropID     string
	// AllCollected accompanies EventDropFound.
	AllCollected bool
	Outcome      Outcome
	State        State
}

func narration(text string) Event {
	return Event{Kind: EventNarration, Text: text}
}

func damageEvent(c *combatant.Combatant, amount int, critical bool) Event {
	return Event{Kind: EventDamage, TargetID: c.ID, TargetName: c.Name, Amount: amount, Critical: critical}
}

func healEvent(c *combatant.Combatant, amount int) Event {
	return Event{Kind: EventHeal, TargetID: c.ID, TargetName: c.Name, Amount: amount}
}

func statusAppliedEvent(c *combatant.Combatant, kind status.Kind) Event {
	return Event{Kind: EventStatusApplied, TargetID: c.ID, TargetName: c.Name, Status: kind}
}

func statusExpiredEvent(c *combatant.Combatant, kind status.Kind) Event {
	return Event{Kind: EventStatusExpired, TargetID: c.ID, TargetName: c.Name, Status: kind}
}
