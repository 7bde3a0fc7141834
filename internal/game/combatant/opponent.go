package combatant

import (
	"fmt"

	"github.com/cory-johannsen/solace/internal/game/status"
)

// Attack is an opponent's single fixed action profile.
type Attack struct {
	Name         string      `yaml:"name"`
	Power        int         `yaml:"power"`
	Description  string      `yaml:"description"`
	StatusEffect status.Kind `yaml:"status_effect"`
	StatusChance float64     `yaml:"status_chance"`
}

// Opponent is the non-player side of a battle.
type Opponent struct {
	Combatant
	TemplateID     string
	Description    string
	Attack         Attack
	RewardXP       int
	RewardResource int
}

// Template defines a reusable opponent archetype loaded from YAML.
type Template struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	Level          int    `yaml:"level"`
	MaxStress      int    `yaml:"max_stress"`
	Attack         Attack `yaml:"attack"`
	RewardXP       int    `yaml:"reward_xp"`
	RewardResource int    `yaml:"reward_resource"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// MaxStress >= 1, Attack.Power >= 1 and rewards are non-negative.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("opponent template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("opponent template %q: name must not be empty", t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("opponent template %q: level must be >= 1", t.ID)
	}
	if t.MaxStress < 1 {
		return fmt.Errorf("opponent template %q: max_stress must be >= 1", t.ID)
	}
	if t.Attack.Power < 1 {
		return fmt.Errorf("opponent template %q: attack power must be >= 1", t.ID)
	}
	if t.Attack.StatusChance < 0 || t.Attack.StatusChance > 1 {
		return fmt.Errorf("opponent template %q: attack status_chance must be in [0, 1]", t.ID)
	}
	if t.RewardXP < 0 || t.RewardResource < 0 {
		return fmt.Errorf("opponent template %q: rewards must be >= 0", t.ID)
	}
	return nil
}

// NewOpponent creates a fresh opponent from a template.
//
// Precondition: id must be non-empty; tmpl must be non-nil and valid.
// Postcondition: CurrentResource equals tmpl.MaxStress; no statuses are active.
func NewOpponent(id string, tmpl *Template) *Opponent {
	return &Opponent{
		Combatant: Combatant{
			ID:              id,
			Name:            tmpl.Name,
			Level:           tmpl.Level,
			MaxResource:     tmpl.MaxStress,
			CurrentResource: tmpl.MaxStress,
		},
		TemplateID:     tmpl.ID,
		Description:    tmpl.Description,
		Attack:         tmpl.Attack,
		RewardXP:       tmpl.RewardXP,
		RewardResource: tmpl.RewardResource,
	}
}

// AttackMove expresses the opponent's fixed attack as a comfort move so it
// resolves through the same rules as player moves.
func (o *Opponent) AttackMove() Move {
	return Move{
		ID:           o.TemplateID + ":attack",
		Name:         o.Attack.Name,
		Power:        o.Attack.Power,
		Category:     CategoryComfort,
		StatusEffect: o.Attack.StatusEffect,
		StatusChance: o.Attack.StatusChance,
		Description:  o.Attack.Description,
	}
}
