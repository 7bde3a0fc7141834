// Package combat implements the turn-based battle engine: action resolution,
// status processing and the battle state machine.
package combat

import "errors"

// ErrWrongState is returned when an input arrives while the machine awaits something else.
var ErrWrongState = errors.New("input not valid in current state")

// ErrInvalidSelection is returned for an out-of-range move or item choice.
var ErrInvalidSelection = errors.New("invalid selection")

// ErrItemUnavailable is returned when the selected item has no units left.
var ErrItemUnavailable = errors.New("item unavailable")

// ErrAlreadyInBattle is returned when a player already has an active battle.
var ErrAlreadyInBattle = errors.New("player already in battle")

// Outcome is how a battle ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeRun
	// OutcomeAborted is reported when the caller abandoned the battle.
	OutcomeAborted
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeRun:
		return "run"
	case OutcomeAborted:
		return "aborted"
	default:
		return "none"
	}
}

// State is a position in the battle state machine.
type State int

const (
	StateIntro State = iota
	StatePlayerTurn
	StatePlayerSelectingMove
	StatePlayerSelectingItem
	StatePlayerAction
	StateEnemyTurn
	StateEnemyAction
	StateVictory
	StateMemoryDrop
	StateDefeat
	StateRunAway
	StateEnd
)

// String returns the state label.
func (s State) String() string {
	switch s {
	case StateIntro:
		return "INTRO"
	case StatePlayerTurn:
		return "PLAYER_TURN"
	case StatePlayerSelectingMove:
		return "PLAYER_SELECTING_MOVE"
	case StatePlayerSelectingItem:
		return "PLAYER_SELECTING_ITEM"
	case StatePlayerAction:
		return "PLAYER_ACTION"
	case StateEnemyTurn:
		return "ENEMY_TURN"
	case StateEnemyAction:
		return "ENEMY_ACTION"
	case StateVictory:
		return "VICTORY"
	case StateMemoryDrop:
		return "MEMORY_DROP"
	case StateDefeat:
		return "DEFEAT"
	case StateRunAway:
		return "RUN_AWAY"
	case StateEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// Await names the input a suspended machine is waiting for.
type Await int

const (
	// AwaitNothing is reported once the battle has ended.
	AwaitNothing Await = iota
	AwaitAdvance
	AwaitAction
	AwaitMove
	AwaitItem
	AwaitTiming
	AwaitAcknowledge
)

// String returns a human-readable label.
func (a Await) String() string {
	switch a {
	case AwaitAdvance:
		return "advance"
	case AwaitAction:
		return "action"
	case AwaitMove:
		return "move"
	case AwaitItem:
		return "item"
	case AwaitTiming:
		return "timing"
	case AwaitAcknowledge:
		return "acknowledge"
	default:
		return "nothing"
	}
}

// Option is an entry of the player's action menu.
type Option int

const (
	OptionComfort Option = iota
	OptionItems
	OptionRun
)

// String returns the menu label.
func (o Option) String() string {
	switch o {
	case OptionComfort:
		return "COMFORT"
	case OptionItems:
		return "ITEMS"
	case OptionRun:
		return "RUN"
	default:
		return "UNKNOWN"
	}
}

// TimingOutcome is the discrete result of the timing-skill check.
type TimingOutcome int

const (
	TimingMiss TimingOutcome = iota
	TimingGood
	TimingPerfect
)

// String returns the outcome label.
func (t TimingOutcome) String() string {
	switch t {
	case TimingPerfect:
		return "PERFECT"
	case TimingGood:
		return "GOOD"
	case TimingMiss:
		return "MISS"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether t is a known outcome.
func (t TimingOutcome) Valid() bool {
	return t == TimingMiss || t == TimingGood || t == TimingPerfect
}

// Multiplier returns the amount multiplier for t.
//
// Postcondition: PERFECT 1.5, GOOD 1.2, MISS and unknown values 0.8.
func (t TimingOutcome) Multiplier() float64 {
	switch t {
	case TimingPerfect:
		return 1.5
	case TimingGood:
		return 1.2
	default:
		return 0.8
	}
}
