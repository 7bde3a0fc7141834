// Package status defines the catalog of status-effect kinds and the
// per-combatant set of statuses active during a battle.
package status

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind identifies a status effect, e.g. "inspired".
type Kind string

// Behavior is the passive rule a status kind follows.
type Behavior string

const (
	// BehaviorDefenseBoost scales down the amount its holder receives.
	BehaviorDefenseBoost Behavior = "defense_boost"
	// BehaviorSkipChance may skip its holder's whole turn.
	BehaviorSkipChance Behavior = "skip_chance"
	// BehaviorSelfHarmChance may redirect its holder's attack to benefit the target.
	BehaviorSelfHarmChance Behavior = "self_harm_chance"
	// BehaviorPowerBoost multiplies its holder's action power upward.
	BehaviorPowerBoost Behavior = "power_boost"
	// BehaviorPowerReduction multiplies its holder's action power downward.
	BehaviorPowerReduction Behavior = "power_reduction"
	// BehaviorPassiveHeal restores resource at its holder's turn start.
	BehaviorPassiveHeal Behavior = "passive_heal"
)

var validBehaviors = map[Behavior]bool{
	BehaviorDefenseBoost:   true,
	BehaviorSkipChance:     true,
	BehaviorSelfHarmChance: true,
	BehaviorPowerBoost:     true,
	BehaviorPowerReduction: true,
	BehaviorPassiveHeal:    true,
}

// Def is the static definition of a status kind, loaded from YAML.
type Def struct {
	Kind        Kind     `yaml:"kind"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Behavior    Behavior `yaml:"behavior"`
	// Chance is the per-turn probability for skip and self-harm behaviors.
	Chance float64 `yaml:"chance"`
	// Amount is the resource restored per turn by passive_heal; 0 = engine default.
	Amount int `yaml:"amount"`
	// Multiplier scales power for power and defense behaviors.
	Multiplier float64 `yaml:"multiplier"`
	// ConsumeOnUse removes the status the first time its power multiplier applies.
	ConsumeOnUse bool `yaml:"consume_on_use"`
}

// Validate checks that the definition satisfies its invariants.
//
// Precondition: d must not be nil.
// Postcondition: Returns nil iff Kind and Name are non-empty, Behavior is known,
// Chance is in [0, 1], Amount >= 0, and power/defense behaviors carry a
// positive Multiplier.
func (d *Def) Validate() error {
	if d.Kind == "" {
		return fmt.Errorf("status def: kind must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("status def %q: name must not be empty", d.Kind)
	}
	if !validBehaviors[d.Behavior] {
		return fmt.Errorf("status def %q: unknown behavior %q", d.Kind, d.Behavior)
	}
	if d.Chance < 0 || d.Chance > 1 {
		return fmt.Errorf("status def %q: chance must be in [0, 1], got %f", d.Kind, d.Chance)
	}
	if d.Amount < 0 {
		return fmt.Errorf("status def %q: amount must be >= 0, got %d", d.Kind, d.Amount)
	}
	switch d.Behavior {
	case BehaviorPowerBoost, BehaviorPowerReduction, BehaviorDefenseBoost:
		if d.Multiplier <= 0 {
			return fmt.Errorf("status def %q: %s requires multiplier > 0", d.Kind, d.Behavior)
		}
	}
	return nil
}

// Registry holds all known Defs keyed by Kind.
type Registry struct {
	defs map[Kind]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Kind]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with the same Kind.
// Precondition: def must not be nil and def.Kind must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.Kind] = def
}

// Get returns the Def for kind, or (nil, false) if not found.
func (r *Registry) Get(kind Kind) (*Def, bool) {
	d, ok := r.defs[kind]
	return d, ok
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int { return len(r.defs) }

// All returns a snapshot slice of all registered Defs, sorted by Kind.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// ParseDefs decodes a YAML sequence of status definitions and validates each.
// Unknown fields are rejected.
//
// Postcondition: Returns every parsed Def, or an error naming the first invalid entry.
func ParseDefs(data []byte) ([]*Def, error) {
	var defs []*Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing status defs: %w", err)
	}
	for i, d := range defs {
		if d == nil {
			return nil, fmt.Errorf("status def[%d]: empty entry", i)
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	return defs, nil
}
