package combat

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/dice"
	"github.com/cory-johannsen/solace/internal/game/status"
)

// AppliedStatus records one status placed on a combatant by an action.
type AppliedStatus struct {
	TargetID  string
	Kind      status.Kind
	Refreshed bool
}

// ActionResult holds the outcome of one resolved move or item.
type ActionResult struct {
	// Amount is the computed effect on the target before flooring its resource.
	Amount          int
	IsCritical      bool
	AppliedStatuses []AppliedStatus
	// SelfHeal is what the actor actually regained.
	SelfHeal int
	// Consumed lists consume-on-use statuses spent by this action.
	Consumed []status.Kind
	Events   []Event
}

// Resolver computes single actions and turn-start status processing against
// the battle rules. It holds no per-battle state.
type Resolver struct {
	rules    Rules
	statuses *status.Registry
	roller   *dice.Roller
	logger   *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: statuses, roller and logger must be non-nil; rules must be valid.
func NewResolver(rules Rules, statuses *status.Registry, roller *dice.Roller, logger *zap.Logger) *Resolver {
	return &Resolver{rules: rules, statuses: statuses, roller: roller, logger: logger}
}

// Rules returns the rules the resolver applies.
func (r *Resolver) Rules() Rules { return r.rules }

// ResolveMove resolves actor using mv on target. timing is nil for actions
// that skip the timing check, i.e. every opponent attack.
//
// The amount is Power scaled by a uniform variance, the timing multiplier,
// the actor's power statuses and the target's defense status, then rounded.
// heal moves return HealReturnRatio of the amount to the actor. The move's
// StatusEffect lands on the target on a chance draw; SelfStatus always lands
// on the actor.
//
// Precondition: actor and target must be non-nil and distinct; mv must be valid.
// Postcondition: both resources stay within [0, MaxResource]; Amount >= 0.
func (r *Resolver) ResolveMove(actor, target *combatant.Combatant, mv combatant.Move, timing *TimingOutcome) ActionResult {
	var res ActionResult

	v := r.roller.Uniform("variance "+mv.ID, -r.rules.Variance, r.rules.Variance)
	amount := float64(mv.Power) * (1 + v)

	if timing != nil {
		amount *= timing.Multiplier()
		if *timing == TimingPerfect {
			res.IsCritical = true
			res.Events = append(res.Events, narration("A perfect moment!"))
		}
	}

	if def, ok := actor.Statuses.WithBehavior(status.BehaviorPowerBoost); ok {
		amount *= def.Multiplier
		res.Events = append(res.Events, narration(fmt.Sprintf("%s is %s and puts extra heart into it!", actor.Name, lower(def.Name))))
		if def.ConsumeOnUse {
			actor.Statuses.Remove(def.Kind)
			res.Consumed = append(res.Consumed, def.Kind)
			res.Events = append(res.Events, statusExpiredEvent(actor, def.Kind))
		}
	}
	if def, ok := actor.Statuses.WithBehavior(status.BehaviorPowerReduction); ok {
		amount *= def.Multiplier
		res.Events = append(res.Events, narration(fmt.Sprintf("%s is %s and holds back.", actor.Name, lower(def.Name))))
	}
	if def, ok := target.Statuses.WithBehavior(status.BehaviorDefenseBoost); ok {
		amount *= def.Multiplier
		res.Events = append(res.Events, narration(fmt.Sprintf("%s feels %s and shrugs some of it off.", target.Name, lower(def.Name))))
	}

	res.Amount = int(math.Round(amount))
	if res.Amount < 0 {
		res.Amount = 0
	}
	target.Damage(res.Amount)
	res.Events = append(res.Events, damageEvent(target, res.Amount, res.IsCritical))

	if mv.Category == combatant.CategoryHeal {
		back := int(math.Round(float64(res.Amount) * r.rules.HealReturnRatio))
		res.SelfHeal = actor.Restore(back)
		if res.SelfHeal > 0 {
			res.Events = append(res.Events, healEvent(actor, res.SelfHeal))
		}
	}

	if mv.StatusEffect != "" {
		chance := mv.StatusChance
		if chance == 0 {
			chance = r.rules.DefaultStatusChance
		}
		if def, ok := r.lookup(mv.StatusEffect, mv.ID); ok {
			if r.roller.Chance("status "+string(def.Kind), chance) {
				res.apply(r.applyStatus(target, def))
			}
		}
	}
	if mv.SelfStatus != "" {
		if def, ok := r.lookup(mv.SelfStatus, mv.ID); ok {
			res.apply(r.applyStatus(actor, def))
		}
	}
	return res
}

// ResolveItem applies item used by user against opponent. heal and special
// items restore the user by Value; comfort and special items reduce the
// opponent by Value.
//
// Precondition: user and opponent must be non-nil; item must be valid.
// Postcondition: both resources stay within [0, MaxResource].
func (r *Resolver) ResolveItem(user, opponent *combatant.Combatant, item combatant.Item) ActionResult {
	var res ActionResult
	if item.Heals() {
		res.SelfHeal = user.Restore(item.Value)
		res.Events = append(res.Events, healEvent(user, res.SelfHeal))
	}
	if item.Comforts() {
		res.Amount = item.Value
		opponent.Damage(item.Value)
		res.Events = append(res.Events, damageEvent(opponent, item.Value, false))
	}
	return res
}

type statusOutcome struct {
	applied AppliedStatus
	events  []Event
}

func (res *ActionResult) apply(o *statusOutcome) {
	if o == nil {
		return
	}
	res.AppliedStatuses = append(res.AppliedStatuses, o.applied)
	res.Events = append(res.Events, o.events...)
}

func (r *Resolver) applyStatus(c *combatant.Combatant, def *status.Def) *statusOutcome {
	refreshed, err := c.Statuses.Apply(def, r.rules.StatusDuration)
	if err != nil {
		r.logger.Warn("applying status", zap.String("kind", string(def.Kind)), zap.Error(err))
		return nil
	}
	text := fmt.Sprintf("%s is now %s.", c.Name, lower(def.Name))
	if refreshed {
		text = fmt.Sprintf("%s stays %s a little longer.", c.Name, lower(def.Name))
	}
	return &statusOutcome{
		applied: AppliedStatus{TargetID: c.ID, Kind: def.Kind, Refreshed: refreshed},
		events:  []Event{statusAppliedEvent(c, def.Kind), narration(text)},
	}
}

func (r *Resolver) lookup(kind status.Kind, moveID string) (*status.Def, bool) {
	def, ok := r.statuses.Get(kind)
	if !ok {
		r.logger.Warn("unknown status kind",
			zap.String("kind", string(kind)),
			zap.String("move", moveID),
		)
	}
	return def, ok
}

func (r *Resolver) statusName(kind status.Kind) string {
	if def, ok := r.statuses.Get(kind); ok {
		return lower(def.Name)
	}
	return string(kind)
}

func lower(name string) string { return strings.ToLower(name) }
