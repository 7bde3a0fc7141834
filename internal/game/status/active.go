package status

import "fmt"

// Active tracks one applied status on a combatant.
type Active struct {
	Def            *Def
	RemainingTurns int
}

// Kind returns the status kind of a.
func (a Active) Kind() Kind { return a.Def.Kind }

// ActiveSet tracks the statuses currently applied to one combatant, in the
// order they were first applied. The zero value is an empty set ready for use.
// It is not safe for concurrent use; the caller must serialise access.
//
// Invariant: at most one entry per Kind.
type ActiveSet struct {
	active []*Active
}

// Apply adds def to the set with duration turns remaining. If the kind is
// already active its RemainingTurns is reset to duration instead of adding a
// second entry.
//
// Precondition: def must not be nil; duration must be > 0.
// Postcondition: Has(def.Kind) is true and exactly one entry exists for def.Kind.
// refreshed reports whether an existing entry was reset.
func (s *ActiveSet) Apply(def *Def, duration int) (refreshed bool, err error) {
	if def == nil {
		return false, fmt.Errorf("Apply: def must not be nil")
	}
	if duration <= 0 {
		return false, fmt.Errorf("Apply: duration must be > 0, got %d", duration)
	}
	if a := s.find(def.Kind); a != nil {
		a.RemainingTurns = duration
		return true, nil
	}
	s.active = append(s.active, &Active{Def: def, RemainingTurns: duration})
	return false, nil
}

// Remove deletes the status of kind from the set.
//
// Postcondition: Has(kind) is false. Returns true if an entry was removed.
func (s *ActiveSet) Remove(kind Kind) bool {
	for i, a := range s.active {
		if a.Def.Kind == kind {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return true
		}
	}
	return false
}

// Tick decrements RemainingTurns of every active status by 1 and removes
// those that reach 0.
//
// Postcondition: For every kind in the returned slice, Has(kind) is false.
// The returned kinds are in application order.
func (s *ActiveSet) Tick() []Kind {
	var expired []Kind
	kept := s.active[:0]
	for _, a := range s.active {
		a.RemainingTurns--
		if a.RemainingTurns <= 0 {
			expired = append(expired, a.Def.Kind)
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = kept
	return expired
}

// Has reports whether the status of kind is currently active.
func (s *ActiveSet) Has(kind Kind) bool {
	return s.find(kind) != nil
}

// Remaining returns the turns left on kind, or 0 if not active.
func (s *ActiveSet) Remaining(kind Kind) int {
	if a := s.find(kind); a != nil {
		return a.RemainingTurns
	}
	return 0
}

// WithBehavior returns the first active status following behavior b.
func (s *ActiveSet) WithBehavior(b Behavior) (*Def, bool) {
	for _, a := range s.active {
		if a.Def.Behavior == b {
			return a.Def, true
		}
	}
	return nil, false
}

// Len returns the number of active statuses.
func (s *ActiveSet) Len() int { return len(s.active) }

// All returns copies of the active entries in application order.
// The pointed-to Defs are shared; callers must not modify them.
func (s *ActiveSet) All() []Active {
	out := make([]Active, 0, len(s.active))
	for _, a := range s.active {
		out = append(out, *a)
	}
	return out
}

// Clear removes every active status.
//
// Postcondition: Len() == 0.
func (s *ActiveSet) Clear() {
	s.active = nil
}

// Clone returns an independent copy of the set.
func (s *ActiveSet) Clone() ActiveSet {
	out := ActiveSet{active: make([]*Active, 0, len(s.active))}
	for _, a := range s.active {
		cp := *a
		out.active = append(out.active, &cp)
	}
	return out
}

func (s *ActiveSet) find(kind Kind) *Active {
	for _, a := range s.active {
		if a.Def.Kind == kind {
			return a
		}
	}
	return nil
}
