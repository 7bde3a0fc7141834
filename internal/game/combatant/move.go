package combatant

import (
	"fmt"

	"github.com/cory-johannsen/solace/internal/game/status"
)

// Category classifies moves and items.
type Category string

const (
	// CategoryComfort reduces the target's resource.
	CategoryComfort Category = "comfort"
	// CategoryHeal reduces the target's resource and returns part of it to the actor.
	CategoryHeal Category = "heal"
	// CategorySpecial has both the comfort and the heal effect for items.
	CategorySpecial Category = "special"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryComfort, CategoryHeal, CategorySpecial:
		return true
	}
	return false
}

// Move is a player-selectable combat action.
type Move struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Power    int      `yaml:"power"`
	Category Category `yaml:"category"`
	// StatusEffect is applied to the target on a successful StatusChance draw.
	StatusEffect status.Kind `yaml:"status_effect"`
	// StatusChance in [0, 1]; 0 means the battle default applies.
	StatusChance float64 `yaml:"status_chance"`
	// SelfStatus is applied to the actor unconditionally.
	SelfStatus  status.Kind `yaml:"self_status"`
	Description string      `yaml:"description"`
}

// Validate checks that the move satisfies basic invariants.
//
// Precondition: m must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Power > 0, the
// category is known and StatusChance is in [0, 1].
func (m *Move) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("move: id must not be empty")
	}
	if m.Name == "" {
		return fmt.Errorf("move %q: name must not be empty", m.ID)
	}
	if m.Power <= 0 {
		return fmt.Errorf("move %q: power must be > 0", m.ID)
	}
	if !m.Category.Valid() {
		return fmt.Errorf("move %q: unknown category %q", m.ID, m.Category)
	}
	if m.StatusChance < 0 || m.StatusChance > 1 {
		return fmt.Errorf("move %q: status_chance must be in [0, 1]", m.ID)
	}
	return nil
}

// Item is a consumable whose quantity is tracked by the inventory collaborator.
type Item struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    Category `yaml:"category"`
	Value       int      `yaml:"value"`
	Description string   `yaml:"description"`
}

// Validate checks that the item satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Value > 0 and the category is known.
func (it *Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("item: id must not be empty")
	}
	if it.Name == "" {
		return fmt.Errorf("item %q: name must not be empty", it.ID)
	}
	if it.Value <= 0 {
		return fmt.Errorf("item %q: value must be > 0", it.ID)
	}
	if !it.Category.Valid() {
		return fmt.Errorf("item %q: unknown category %q", it.ID, it.Category)
	}
	return nil
}

// Heals reports whether using the item restores its user.
func (it *Item) Heals() bool {
	return it.Category == CategoryHeal || it.Category == CategorySpecial
}

// Comforts reports whether using the item reduces the opponent's resource.
func (it *Item) Comforts() bool {
	return it.Category == CategoryComfort || it.Category == CategorySpecial
}
