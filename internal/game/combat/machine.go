package combat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/progression"
	"github.com/cory-johannsen/solace/internal/game/reward"
	"github.com/cory-johannsen/solace/internal/game/status"
	"github.com/cory-johannsen/solace/internal/scripting"
)

// Narration hook names passed to the Narrator.
const (
	HookIntro   = "on_intro"
	HookVictory = "on_victory"
	HookDefeat  = "on_defeat"
	HookFlee    = "on_flee"
)

// step is the work a machine performs on its next Advance.
type step int

const (
	stepNone step = iota
	stepPlayerTurn
	stepEnemyTurn
	// stepEnemyStrike is the opponent's retaliation after a failed flee; it
	// skips the opponent's status processing and self-harm check.
	stepEnemyStrike
	stepMemoryDrop
	stepEnd
)

// ItemChoice is an item menu entry with its current quantity.
type ItemChoice struct {
	Item  combatant.Item
	Count int
}

// Entry is what the caller supplies to start a battle.
type Entry struct {
	Opponent      *combatant.Opponent
	Player        *combatant.Combatant
	ReturnContext string
}

// Exit is what the caller receives once the battle reaches END.
type Exit struct {
	Player        *combatant.Combatant
	ReturnContext string
	Outcome       Outcome
}

// Machine is one battle's state machine. It never blocks: every point where
// it waits for the outside world is reported by Await and resumed by the
// matching input method.
//
// Machine is not safe for concurrent use; the driver must serialise input.
type Machine struct {
	id            string
	state         State
	await         Await
	pending       step
	player        *combatant.Combatant
	opponent      *combatant.Opponent
	returnContext string
	items         []combatant.Item
	selectedMove  int
	outcome       Outcome
	rewarded      bool
	drop          reward.Drop
	events        []Event

	resolver  *Resolver
	inventory Inventory
	rewards   Rewarder
	narrator  Narrator
	logger    *zap.Logger
	onEnd     func()
}

// ID returns the battle identifier.
func (m *Machine) ID() string { return m.id }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Await returns the input the machine is waiting for.
func (m *Machine) Await() Await { return m.await }

// Outcome returns the battle outcome, OutcomeNone until one is decided.
func (m *Machine) Outcome() Outcome { return m.outcome }

// Player returns a copy of the player's current record.
func (m *Machine) Player() *combatant.Combatant { return m.player.Clone() }

// Opponent returns a copy of the opponent's current record.
func (m *Machine) Opponent() *combatant.Opponent {
	cp := *m.opponent
	cp.Combatant = *m.opponent.Combatant.Clone()
	return &cp
}

// Moves returns the player's move menu.
func (m *Machine) Moves() []combatant.Move {
	return append([]combatant.Move(nil), m.player.Moves...)
}

// Items returns the item menu with current quantities. Quantity lookup
// failures are logged and reported as 0.
func (m *Machine) Items(ctx context.Context) []ItemChoice {
	out := make([]ItemChoice, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, ItemChoice{Item: it, Count: m.itemCount(ctx, it.ID)})
	}
	return out
}

// Drop returns the reward selected on victory.
func (m *Machine) Drop() reward.Drop { return m.drop }

// Events drains and returns the events emitted since the previous call, in order.
func (m *Machine) Events() []Event {
	out := m.events
	m.events = nil
	return out
}

// Result returns the battle exit once the machine has reached END.
//
// Postcondition: ok is false before END. The returned player is a copy with
// no battle-scoped statuses.
func (m *Machine) Result() (exit Exit, ok bool) {
	if m.state != StateEnd {
		return Exit{}, false
	}
	return Exit{Player: m.player.Clone(), ReturnContext: m.returnContext, Outcome: m.outcome}, true
}

func (m *Machine) start() {
	m.player.Statuses.Clear()
	m.opponent.Statuses.Clear()
	m.setState(StateIntro)
	m.emit(narration(fmt.Sprintf("%s drifts close.", m.opponent.Name)))
	if m.opponent.Description != "" {
		m.emit(narration(m.opponent.Description))
	}
	m.narrate(HookIntro)
	m.suspend(stepPlayerTurn)
}

// Advance runs the pending step.
//
// Precondition: Await() == AwaitAdvance.
// Postcondition: returns ErrWrongState without change otherwise.
func (m *Machine) Advance(ctx context.Context) error {
	if m.await != AwaitAdvance {
		return m.wrongState("advance")
	}
	next := m.pending
	m.pending = stepNone
	switch next {
	case stepPlayerTurn:
		m.beginPlayerTurn()
	case stepEnemyTurn:
		m.beginEnemyTurn(ctx)
	case stepEnemyStrike:
		m.enemyStrike(ctx)
	case stepMemoryDrop:
		m.enterMemoryDrop()
	case stepEnd:
		m.finish()
	default:
		return fmt.Errorf("advance: no pending step in %s", m.state)
	}
	return nil
}

// Choose selects an entry of the action menu.
//
// Precondition: Await() == AwaitAction.
func (m *Machine) Choose(opt Option) error {
	if m.await != AwaitAction {
		return m.wrongState("choose")
	}
	switch opt {
	case OptionComfort:
		if len(m.player.Moves) == 0 {
			return fmt.Errorf("choose %s: no moves: %w", opt, ErrInvalidSelection)
		}
		m.setState(StatePlayerSelectingMove)
		m.await = AwaitMove
	case OptionItems:
		m.setState(StatePlayerSelectingItem)
		m.await = AwaitItem
	case OptionRun:
		m.flee()
	default:
		return fmt.Errorf("choose %d: %w", opt, ErrInvalidSelection)
	}
	return nil
}

// Back returns from the move or item menu to the action menu.
//
// Precondition: Await() is AwaitMove or AwaitItem.
func (m *Machine) Back() error {
	if m.await != AwaitMove && m.await != AwaitItem {
		return m.wrongState("back")
	}
	m.setState(StatePlayerTurn)
	m.await = AwaitAction
	return nil
}

// ConfirmMove selects the move at index and requests the timing check.
//
// Precondition: Await() == AwaitMove.
// Postcondition: on error the machine is unchanged.
func (m *Machine) ConfirmMove(index int) error {
	if m.await != AwaitMove {
		return m.wrongState("confirm move")
	}
	if index < 0 || index >= len(m.player.Moves) {
		return fmt.Errorf("move %d of %d: %w", index, len(m.player.Moves), ErrInvalidSelection)
	}
	m.selectedMove = index
	m.setState(StatePlayerAction)
	m.await = AwaitTiming
	m.emit(Event{Kind: EventTimingRequested, Text: m.player.Moves[index].Name})
	return nil
}

// SubmitTiming resolves the selected move with the timing-check outcome.
//
// Precondition: Await() == AwaitTiming.
func (m *Machine) SubmitTiming(ctx context.Context, outcome TimingOutcome) error {
	if m.await != AwaitTiming {
		return m.wrongState("submit timing")
	}
	if !outcome.Valid() {
		return fmt.Errorf("timing outcome %d: %w", outcome, ErrInvalidSelection)
	}
	mv := m.player.Moves[m.selectedMove]
	m.emit(narration(fmt.Sprintf("%s uses %s!", m.player.Name, mv.Name)))
	res := m.resolver.ResolveMove(m.player, &m.opponent.Combatant, mv, &outcome)
	m.emit(res.Events...)
	m.logger.Debug("player move resolved",
		zap.String("battle", m.id),
		zap.String("move", mv.ID),
		zap.Stringer("timing", outcome),
		zap.Int("amount", res.Amount),
	)
	m.afterAction(ctx, stepEnemyTurn)
	return nil
}

// ConfirmItem consumes and uses the item at index.
//
// Precondition: Await() == AwaitItem.
// Postcondition: an index out of range returns ErrInvalidSelection and an
// item with no units returns ErrItemUnavailable; neither changes the machine.
// A consume that fails after the count check narrates and ends the turn
// without effect.
func (m *Machine) ConfirmItem(ctx context.Context, index int) error {
	if m.await != AwaitItem {
		return m.wrongState("confirm item")
	}
	if index < 0 || index >= len(m.items) {
		return fmt.Errorf("item %d of %d: %w", index, len(m.items), ErrInvalidSelection)
	}
	item := m.items[index]
	if m.itemCount(ctx, item.ID) <= 0 {
		return fmt.Errorf("item %q: %w", item.ID, ErrItemUnavailable)
	}

	m.setState(StatePlayerAction)
	ok, err := m.inventory.ConsumeItem(ctx, item.ID)
	if err != nil {
		m.logger.Warn("consuming item", zap.String("battle", m.id), zap.String("item", item.ID), zap.Error(err))
	}
	if err != nil || !ok {
		m.emit(narration(fmt.Sprintf("%s reaches for the %s, but it's gone.", m.player.Name, item.Name)))
		m.suspend(stepEnemyTurn)
		return nil
	}
	m.emit(narration(fmt.Sprintf("%s uses the %s.", m.player.Name, item.Name)))
	res := m.resolver.ResolveItem(m.player, &m.opponent.Combatant, item)
	m.emit(res.Events...)
	m.afterAction(ctx, stepEnemyTurn)
	return nil
}

// Acknowledge closes the memory-drop screen and ends the battle.
//
// Precondition: Await() == AwaitAcknowledge.
func (m *Machine) Acknowledge(_ context.Context) error {
	if m.await != AwaitAcknowledge {
		return m.wrongState("acknowledge")
	}
	m.finish()
	return nil
}

// Abort abandons the battle from any state. Resource changes already applied
// are kept; nothing is rolled back. Aborting an ended battle is a no-op.
//
// Postcondition: State() == StateEnd.
func (m *Machine) Abort() {
	if m.state == StateEnd {
		return
	}
	if m.outcome == OutcomeNone {
		m.outcome = OutcomeAborted
	}
	m.finish()
}

func (m *Machine) beginPlayerTurn() {
	m.setState(StatePlayerTurn)
	tick := m.resolver.TickStatuses(m.player)
	m.emit(tick.Events...)
	if tick.Skip {
		m.suspend(stepEnemyTurn)
		return
	}
	m.await = AwaitAction
}

func (m *Machine) flee() {
	m.emit(narration(fmt.Sprintf("%s tries to slip away...", m.player.Name)))
	if m.resolver.roller.Chance("flee", m.resolver.rules.FleeChance) {
		m.outcome = OutcomeRun
		m.setState(StateRunAway)
		m.emit(narration("...and gets away safely."))
		m.narrate(HookFlee)
		m.suspend(stepEnd)
		return
	}
	m.emit(narration("...but can't get away!"))
	m.setState(StateEnemyTurn)
	m.suspend(stepEnemyStrike)
}

func (m *Machine) beginEnemyTurn(ctx context.Context) {
	m.setState(StateEnemyTurn)
	tick := m.resolver.TickStatuses(&m.opponent.Combatant)
	m.emit(tick.Events...)
	if tick.Skip {
		m.suspend(stepPlayerTurn)
		return
	}
	if def, ok := m.opponent.Statuses.WithBehavior(status.BehaviorSelfHarmChance); ok {
		if m.resolver.roller.Chance("self-harm "+string(def.Kind), def.Chance) {
			restored := m.player.Restore(m.opponent.Attack.Power)
			m.emit(
				narration(fmt.Sprintf("%s is %s and ends up comforting %s instead!", m.opponent.Name, lower(def.Name), m.player.Name)),
				healEvent(m.player, restored),
			)
			m.suspend(stepPlayerTurn)
			return
		}
	}
	m.enemyStrike(ctx)
}

func (m *Machine) enemyStrike(ctx context.Context) {
	m.setState(StateEnemyAction)
	mv := m.opponent.AttackMove()
	m.emit(narration(fmt.Sprintf("%s uses %s!", m.opponent.Name, mv.Name)))
	res := m.resolver.ResolveMove(&m.opponent.Combatant, m.player, mv, nil)
	m.emit(res.Events...)
	m.afterAction(ctx, stepPlayerTurn)
}

// afterAction runs the termination check and otherwise suspends until next.
func (m *Machine) afterAction(ctx context.Context, next step) {
	switch {
	case m.opponent.IsDepleted():
		m.victory(ctx)
	case m.player.IsDepleted():
		m.defeat()
	default:
		m.suspend(next)
	}
}

func (m *Machine) victory(ctx context.Context) {
	m.outcome = OutcomeVictory
	m.setState(StateVictory)
	if !m.rewarded {
		m.rewarded = true
		m.emit(narration(fmt.Sprintf("%s relaxes and smiles.", m.opponent.Name)))
		if restored := m.player.Restore(m.opponent.RewardResource); restored > 0 {
			m.emit(healEvent(m.player, restored))
		}
		if m.opponent.RewardXP > 0 {
			m.emit(narration(fmt.Sprintf("%s gains %d XP.", m.player.Name, m.opponent.RewardXP)))
		}
		if lu := progression.ApplyXP(m.player, m.opponent.RewardXP, m.resolver.rules.LevelStep); lu != nil {
			m.emit(
				Event{Kind: EventLevelUp, TargetID: m.player.ID, TargetName: m.player.Name, Level: lu.NewLevel, Amount: lu.MaxResourceGain},
				narration(fmt.Sprintf("%s reached level %d!", m.player.Name, lu.NewLevel)),
			)
		}
		m.drop = m.selectDrop(ctx)
		m.narrate(HookVictory)
	}
	if m.drop.Found {
		m.suspend(stepMemoryDrop)
		return
	}
	m.suspend(stepEnd)
}

func (m *Machine) selectDrop(ctx context.Context) reward.Drop {
	if m.rewards == nil {
		return reward.Drop{}
	}
	d, err := m.rewards.Select(ctx)
	if err != nil {
		m.logger.Warn("selecting drop", zap.String("battle", m.id), zap.Error(err))
		return reward.Drop{}
	}
	return d
}

func (m *Machine) defeat() {
	m.outcome = OutcomeDefeat
	m.setState(StateDefeat)
	m.player.SetResource(m.player.MaxResource / 2)
	m.emit(narration(fmt.Sprintf("%s needs a moment to rest.", m.player.Name)))
	m.narrate(HookDefeat)
	m.suspend(stepEnd)
}

func (m *Machine) enterMemoryDrop() {
	m.setState(StateMemoryDrop)
	m.emit(Event{Kind: EventDropFound, DropID: m.drop.ID, AllCollected: m.drop.AllCollected})
	if m.drop.AllCollected {
		m.emit(narration("Every memory has been found."))
	}
	m.await = AwaitAcknowledge
}

func (m *Machine) finish() {
	m.player.Statuses.Clear()
	m.opponent.Statuses.Clear()
	m.setState(StateEnd)
	m.pending = stepNone
	m.await = AwaitNothing
	m.emit(Event{Kind: EventBattleEnded, Outcome: m.outcome})
	m.logger.Info("battle ended",
		zap.String("battle", m.id),
		zap.String("player", m.player.ID),
		zap.String("opponent", m.opponent.TemplateID),
		zap.Stringer("outcome", m.outcome),
	)
	if m.onEnd != nil {
		m.onEnd()
		m.onEnd = nil
	}
}

func (m *Machine) suspend(next step) {
	m.pending = next
	m.await = AwaitAdvance
}

func (m *Machine) setState(s State) {
	m.logger.Debug("battle state",
		zap.String("battle", m.id),
		zap.Stringer("from", m.state),
		zap.Stringer("to", s),
	)
	m.state = s
	m.emit(Event{Kind: EventStateChanged, State: s})
}

func (m *Machine) emit(evs ...Event) {
	m.events = append(m.events, evs...)
}

func (m *Machine) narrate(hook string) {
	if m.narrator == nil {
		return
	}
	info := scripting.NarrationInfo{
		PlayerID:     m.player.ID,
		PlayerName:   m.player.Name,
		PlayerLevel:  m.player.Level,
		OpponentID:   m.opponent.TemplateID,
		OpponentName: m.opponent.Name,
		Outcome:      m.outcome.String(),
		DropID:       m.drop.ID,
	}
	for _, line := range m.narrator.Narrate(hook, info) {
		m.emit(narration(line))
	}
}

func (m *Machine) itemCount(ctx context.Context, id string) int {
	if m.inventory == nil {
		return 0
	}
	n, err := m.inventory.ItemCount(ctx, id)
	if err != nil {
		m.logger.Warn("counting item", zap.String("battle", m.id), zap.String("item", id), zap.Error(err))
		return 0
	}
	return n
}

func (m *Machine) wrongState(input string) error {
	return fmt.Errorf("%s in %s awaiting %s: %w", input, m.state, m.await, ErrWrongState)
}
