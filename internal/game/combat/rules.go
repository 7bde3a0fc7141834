package combat

import (
	"errors"
	"fmt"
)

// Rules holds the tunable numbers of the battle rules.
type Rules struct {
	// FleeChance is the probability a RUN attempt succeeds.
	FleeChance float64
	// StatusDuration is the turn count every applied or refreshed status receives.
	StatusDuration int
	// DefaultStatusChance is used for moves with an effect but no explicit chance.
	DefaultStatusChance float64
	// HealReturnRatio is the share of a heal move's amount returned to the actor.
	HealReturnRatio float64
	// Variance bounds the uniform power spread, e.g. 0.2 for [-20%, +20%).
	Variance float64
	// LevelStep is the MaxResource gained per level.
	LevelStep int
	// PassiveHealAmount is restored by passive_heal statuses that set no amount.
	PassiveHealAmount int
}

// DefaultRules returns the standard battle rules.
func DefaultRules() Rules {
	return Rules{
		FleeChance:          0.7,
		StatusDuration:      2,
		DefaultStatusChance: 0.5,
		HealReturnRatio:     0.3,
		Variance:            0.2,
		LevelStep:           10,
		PassiveHealAmount:   5,
	}
}

// Validate returns an error listing every rule outside its legal range.
func (r Rules) Validate() error {
	var errs []error
	if r.FleeChance < 0 || r.FleeChance > 1 {
		errs = append(errs, fmt.Errorf("flee chance must be in [0, 1], got %f", r.FleeChance))
	}
	if r.StatusDuration < 1 {
		errs = append(errs, fmt.Errorf("status duration must be >= 1, got %d", r.StatusDuration))
	}
	if r.DefaultStatusChance < 0 || r.DefaultStatusChance > 1 {
		errs = append(errs, fmt.Errorf("default status chance must be in [0, 1], got %f", r.DefaultStatusChance))
	}
	if r.HealReturnRatio < 0 {
		errs = append(errs, fmt.Errorf("heal return ratio must be >= 0, got %f", r.HealReturnRatio))
	}
	if r.Variance < 0 || r.Variance >= 1 {
		errs = append(errs, fmt.Errorf("variance must be in [0, 1), got %f", r.Variance))
	}
	if r.LevelStep < 0 {
		errs = append(errs, fmt.Errorf("level step must be >= 0, got %d", r.LevelStep))
	}
	if r.PassiveHealAmount < 0 {
		errs = append(errs, fmt.Errorf("passive heal amount must be >= 0, got %d", r.PassiveHealAmount))
	}
	return errors.Join(errs...)
}
