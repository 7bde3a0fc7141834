// Package session drives battles from the outside: it feeds player input
// and timing-check results into a combat.Machine and hands its events to a
// Presenter.
package session

import (
	"context"
	"time"

	"github.com/cory-johannsen/solace/internal/game/combat"
)

// TimingChecker runs the interactive timing skill check.
type TimingChecker interface {
	RunTimingCheck(ctx context.Context) (combat.TimingOutcome, error)
}

// TimingFunc adapts a function to TimingChecker.
type TimingFunc func(ctx context.Context) (combat.TimingOutcome, error)

// RunTimingCheck calls f.
func (f TimingFunc) RunTimingCheck(ctx context.Context) (combat.TimingOutcome, error) {
	return f(ctx)
}

// RunTimingCheck runs checker bounded by timeout. The checker's context is
// cancelled when the deadline expires.
//
// Postcondition: Returns MISS on timeout, checker error, an invalid outcome,
// or cancellation of ctx; otherwise the checker's outcome.
func RunTimingCheck(ctx context.Context, checker TimingChecker, timeout time.Duration) combat.TimingOutcome {
	if checker == nil || ctx.Err() != nil {
		return combat.TimingMiss
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if timeout > 0 {
		dl := NewDeadline(timeout, cancel)
		defer dl.Stop()
	}

	type result struct {
		outcome combat.TimingOutcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		o, err := checker.RunTimingCheck(ctx)
		done <- result{o, err}
	}()

	select {
	case <-ctx.Done():
		return combat.TimingMiss
	case r := <-done:
		// An outcome racing the deadline still counts as late.
		if r.err != nil || !r.outcome.Valid() || ctx.Err() != nil {
			return combat.TimingMiss
		}
		return r.outcome
	}
}
