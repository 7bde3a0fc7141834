// Package memory provides in-process implementations of the battle
// persistence collaborators, used by the terminal driver and tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/cory-johannsen/solace/internal/game/combatant"
)

// ErrCombatantNotFound is returned when a player lookup yields no results.
var ErrCombatantNotFound = errors.New("combatant not found")

// Inventory tracks item quantities. It is safe for concurrent use.
type Inventory struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewInventory creates an Inventory seeded with counts.
func NewInventory(counts map[string]int) *Inventory {
	inv := &Inventory{counts: make(map[string]int, len(counts))}
	for id, n := range counts {
		if n > 0 {
			inv.counts[id] = n
		}
	}
	return inv
}

// Add increases the quantity of id by n.
//
// Precondition: n must be > 0.
func (i *Inventory) Add(id string, n int) {
	if n <= 0 {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.counts[id] += n
}

// ItemCount returns the quantity of id.
func (i *Inventory) ItemCount(_ context.Context, id string) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.counts[id], nil
}

// ConsumeItem removes one unit of id.
//
// Postcondition: Returns false without change when the quantity is already 0.
func (i *Inventory) ConsumeItem(_ context.Context, id string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.counts[id] <= 0 {
		return false, nil
	}
	i.counts[id]--
	if i.counts[id] == 0 {
		delete(i.counts, id)
	}
	return true, nil
}

// Progress is a single player's collectible set. It is safe for concurrent use.
type Progress struct {
	mu        sync.Mutex
	total     int
	collected map[string]struct{}
}

// NewProgress creates a Progress over a catalog of total entries.
func NewProgress(total int, collected ...string) *Progress {
	p := &Progress{total: total, collected: make(map[string]struct{}, len(collected))}
	for _, id := range collected {
		p.collected[id] = struct{}{}
	}
	return p
}

// IsCollected reports whether id has been collected.
func (p *Progress) IsCollected(_ context.Context, id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.collected[id]
	return ok, nil
}

// MarkCollected records id, returning false if it was already collected.
func (p *Progress) MarkCollected(_ context.Context, id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.collected[id]; ok {
		return false, nil
	}
	p.collected[id] = struct{}{}
	return true, nil
}

// CollectedCount returns the number of collected ids.
func (p *Progress) CollectedCount(_ context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.collected), nil
}

// TotalCount returns the catalog size.
func (p *Progress) TotalCount(_ context.Context) (int, error) {
	return p.total, nil
}

// Combatants stores player records by ID. It is safe for concurrent use.
// Records are copied on the way in and out.
type Combatants struct {
	mu   sync.Mutex
	byID map[string]*combatant.Combatant
}

// NewCombatants creates an empty store.
func NewCombatants() *Combatants {
	return &Combatants{byID: make(map[string]*combatant.Combatant)}
}

// Load returns a copy of the player with id, or ErrCombatantNotFound.
func (s *Combatants) Load(_ context.Context, id string) (*combatant.Combatant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrCombatantNotFound
	}
	return c.Clone(), nil
}

// Save stores a copy of c, replacing any previous record with the same ID.
//
// Precondition: c must not be nil and c.ID must be non-empty.
func (s *Combatants) Save(_ context.Context, c *combatant.Combatant) error {
	if c == nil || c.ID == "" {
		return errors.New("saving combatant: id must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := c.Clone()
	cp.Statuses.Clear()
	s.byID[c.ID] = cp
	return nil
}
