// Package content loads the static battle catalog: status kinds, moves,
// items, opponents, collectible memories and the starting player profile.
package content

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/status"
)

// Fallback entries returned for unknown ids.
const (
	DefaultOpponentID = "default"
	DefaultMoveID     = "gentle_words"
)

// Memory is a collectible granted as a victory drop.
type Memory struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// PlayerProfile describes a newly created player.
type PlayerProfile struct {
	Name        string         `yaml:"name"`
	MaxResource int            `yaml:"max_resource"`
	Moves       []string       `yaml:"moves"`
	Items       map[string]int `yaml:"items"`
}

// Catalog is the read-only content set for battles.
// It is safe for concurrent use once loaded.
type Catalog struct {
	statuses  *status.Registry
	moves     map[string]combatant.Move
	items     []combatant.Item
	opponents map[string]*combatant.Template
	memories  []Memory
	player    PlayerProfile
	logger    *zap.Logger
}

// Statuses returns the status registry.
func (c *Catalog) Statuses() *status.Registry { return c.statuses }

// Move returns the move with id. An unknown id logs a warning and yields the
// DefaultMoveID entry.
func (c *Catalog) Move(id string) combatant.Move {
	if mv, ok := c.moves[id]; ok {
		return mv
	}
	c.logger.Warn("unknown move, using default", zap.String("id", id), zap.String("default", DefaultMoveID))
	return c.moves[DefaultMoveID]
}

// Moves resolves ids in order through Move.
func (c *Catalog) Moves(ids []string) []combatant.Move {
	out := make([]combatant.Move, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.Move(id))
	}
	return out
}

// Items returns the item catalog in file order.
func (c *Catalog) Items() []combatant.Item {
	return append([]combatant.Item(nil), c.items...)
}

// Opponent returns the opponent template with id. An unknown id logs a
// warning and yields the DefaultOpponentID entry.
//
// Postcondition: never returns nil.
func (c *Catalog) Opponent(id string) *combatant.Template {
	if t, ok := c.opponents[id]; ok {
		return t
	}
	c.logger.Warn("unknown opponent, using default", zap.String("id", id), zap.String("default", DefaultOpponentID))
	return c.opponents[DefaultOpponentID]
}

// OpponentIDs returns every opponent id, sorted.
func (c *Catalog) OpponentIDs() []string {
	ids := make([]string, 0, len(c.opponents))
	for id := range c.opponents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MemoryIDs returns the memory ids in file order; this is the drop catalog.
func (c *Catalog) MemoryIDs() []string {
	ids := make([]string, 0, len(c.memories))
	for _, m := range c.memories {
		ids = append(ids, m.ID)
	}
	return ids
}

// Memory returns the memory with id.
func (c *Catalog) Memory(id string) (Memory, bool) {
	for _, m := range c.memories {
		if m.ID == id {
			return m, true
		}
	}
	return Memory{}, false
}

// Player returns the starting player profile.
func (c *Catalog) Player() PlayerProfile {
	p := c.player
	p.Moves = append([]string(nil), p.Moves...)
	p.Items = make(map[string]int, len(c.player.Items))
	for k, v := range c.player.Items {
		p.Items[k] = v
	}
	return p
}

// NewPlayer creates a level 1 player from the starting profile.
//
// Precondition: id must be non-empty.
func (c *Catalog) NewPlayer(id string) *combatant.Combatant {
	return combatant.NewPlayer(id, c.player.Name, c.player.MaxResource, c.Moves(c.player.Moves))
}

// validate checks cross references between the catalog files.
func (c *Catalog) validate() error {
	var errs []error
	known := func(kind status.Kind) bool {
		_, ok := c.statuses.Get(kind)
		return kind == "" || ok
	}

	if _, ok := c.moves[DefaultMoveID]; !ok {
		errs = append(errs, fmt.Errorf("moves: fallback move %q is missing", DefaultMoveID))
	}
	if _, ok := c.opponents[DefaultOpponentID]; !ok {
		errs = append(errs, fmt.Errorf("opponents: fallback opponent %q is missing", DefaultOpponentID))
	}
	for _, id := range sortedKeys(c.moves) {
		mv := c.moves[id]
		if !known(mv.StatusEffect) {
			errs = append(errs, fmt.Errorf("move %q: unknown status_effect %q", id, mv.StatusEffect))
		}
		if !known(mv.SelfStatus) {
			errs = append(errs, fmt.Errorf("move %q: unknown self_status %q", id, mv.SelfStatus))
		}
	}
	for _, id := range c.OpponentIDs() {
		if t := c.opponents[id]; !known(t.Attack.StatusEffect) {
			errs = append(errs, fmt.Errorf("opponent %q: unknown attack status_effect %q", id, t.Attack.StatusEffect))
		}
	}

	if c.player.Name == "" {
		errs = append(errs, errors.New("player: name must not be empty"))
	}
	if c.player.MaxResource < 1 {
		errs = append(errs, fmt.Errorf("player: max_resource must be >= 1, got %d", c.player.MaxResource))
	}
	for _, id := range c.player.Moves {
		if _, ok := c.moves[id]; !ok {
			errs = append(errs, fmt.Errorf("player: unknown move %q", id))
		}
	}
	for _, id := range sortedKeys(c.player.Items) {
		if !c.hasItem(id) {
			errs = append(errs, fmt.Errorf("player: unknown item %q", id))
		}
		if c.player.Items[id] < 0 {
			errs = append(errs, fmt.Errorf("player: item %q count must be >= 0", id))
		}
	}
	return errors.Join(errs...)
}

func (c *Catalog) hasItem(id string) bool {
	for _, it := range c.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
