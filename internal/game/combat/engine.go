package combat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/reward"
	"github.com/cory-johannsen/solace/internal/scripting"
)

// Inventory is the caller-owned item store.
type Inventory interface {
	ItemCount(ctx context.Context, id string) (int, error)
	ConsumeItem(ctx context.Context, id string) (bool, error)
}

// Rewarder draws the collectible granted on victory.
type Rewarder interface {
	Select(ctx context.Context) (reward.Drop, error)
}

// Narrator supplies extra narration lines for a hook.
type Narrator interface {
	Narrate(hook string, info scripting.NarrationInfo) []string
}

// Collaborators are the per-player services a battle uses.
// A nil Rewards never drops anything; a nil Inventory reports every item as empty.
type Collaborators struct {
	Inventory Inventory
	Rewards   Rewarder
}

// Engine starts battles and tracks the active one for each player.
// All methods are safe for concurrent use; the Machines it returns are not.
type Engine struct {
	mu       sync.Mutex
	active   map[string]*Machine
	resolver *Resolver
	items    []combatant.Item
	narrator Narrator
	logger   *zap.Logger
}

// NewEngine creates an Engine offering items in every battle's item menu.
//
// Precondition: resolver and logger must be non-nil; narrator may be nil.
// Postcondition: Returns a non-nil Engine with no active battles.
func NewEngine(resolver *Resolver, items []combatant.Item, narrator Narrator, logger *zap.Logger) *Engine {
	return &Engine{
		active:   make(map[string]*Machine),
		resolver: resolver,
		items:    append([]combatant.Item(nil), items...),
		narrator: narrator,
		logger:   logger,
	}
}

// Start begins a battle. The engine works on copies of entry's combatants;
// the caller receives the updated player in the machine's Exit.
//
// Precondition: entry.Player and entry.Opponent must be non-nil; entry.Player.ID non-empty.
// Postcondition: Returns a machine in INTRO awaiting Advance, or
// ErrAlreadyInBattle if the player already has an unfinished battle.
func (e *Engine) Start(entry Entry, collab Collaborators) (*Machine, error) {
	if entry.Player == nil || entry.Opponent == nil {
		return nil, errors.New("start battle: player and opponent are required")
	}
	if entry.Player.ID == "" {
		return nil, errors.New("start battle: player id must not be empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.active[entry.Player.ID]; exists {
		return nil, fmt.Errorf("player %q: %w", entry.Player.ID, ErrAlreadyInBattle)
	}

	opp := *entry.Opponent
	opp.Combatant = *entry.Opponent.Combatant.Clone()

	m := &Machine{
		id:            uuid.NewString(),
		player:        entry.Player.Clone(),
		opponent:      &opp,
		returnContext: entry.ReturnContext,
		items:         e.items,
		resolver:      e.resolver,
		inventory:     collab.Inventory,
		rewards:       collab.Rewards,
		narrator:      e.narrator,
		logger:        e.logger,
	}
	playerID := entry.Player.ID
	m.onEnd = func() { e.release(playerID, m) }
	e.active[playerID] = m

	e.logger.Info("battle started",
		zap.String("battle", m.id),
		zap.String("player", playerID),
		zap.String("opponent", opp.TemplateID),
	)
	m.start()
	return m, nil
}

// Get returns the active battle of playerID.
//
// Postcondition: Returns (machine, true) if found, or (nil, false) otherwise.
func (e *Engine) Get(playerID string) (*Machine, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.active[playerID]
	return m, ok
}

// ActiveCount returns the number of unfinished battles.
func (e *Engine) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

func (e *Engine) release(playerID string, m *Machine) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active[playerID] == m {
		delete(e.active, playerID)
	}
}
