package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/game/combat"
	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/reward"
)

// Presenter renders battle events and collects the player's choices.
// A returned error aborts the battle.
type Presenter interface {
	// Show renders events in order.
	Show(ctx context.Context, events []combat.Event) error
	// Notice tells the player a choice was rejected.
	Notice(ctx context.Context, message string) error
	ChooseAction(ctx context.Context, options []combat.Option) (combat.Option, error)
	// ChooseMove returns a move index, or back=true to return to the action menu.
	ChooseMove(ctx context.Context, moves []combatant.Move) (index int, back bool, err error)
	// ChooseItem returns an item index, or back=true to return to the action menu.
	ChooseItem(ctx context.Context, items []combat.ItemChoice) (index int, back bool, err error)
	// Acknowledge waits until the player dismisses the memory drop.
	Acknowledge(ctx context.Context, drop reward.Drop) error
}

// Options tunes a Runner.
type Options struct {
	// TimingTimeout bounds every timing check.
	TimingTimeout time.Duration
	// PacingDelay is the pause before each automatic step.
	PacingDelay time.Duration
}

// Runner drives one battle at a time to completion.
type Runner struct {
	engine    *combat.Engine
	presenter Presenter
	timing    TimingChecker
	opts      Options
	logger    *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: engine, presenter and logger must be non-nil. A nil timing
// checker makes every timing check a MISS.
func NewRunner(engine *combat.Engine, presenter Presenter, timing TimingChecker, opts Options, logger *zap.Logger) *Runner {
	return &Runner{engine: engine, presenter: presenter, timing: timing, opts: opts, logger: logger}
}

var actionMenu = []combat.Option{combat.OptionComfort, combat.OptionItems, combat.OptionRun}

// Run starts a battle for entry and drives it until END.
//
// Postcondition: the battle has ended. When ctx is cancelled or the presenter
// fails, the battle is aborted and the error is returned along with the exit.
func (r *Runner) Run(ctx context.Context, entry combat.Entry, collab combat.Collaborators) (combat.Exit, error) {
	m, err := r.engine.Start(entry, collab)
	if err != nil {
		return combat.Exit{}, fmt.Errorf("starting battle: %w", err)
	}

	runErr := r.drive(ctx, m)
	if runErr != nil {
		m.Abort()
		r.logger.Info("battle aborted", zap.String("battle", m.ID()), zap.Error(runErr))
		// The abort events are still shown on a live context.
		if ctx.Err() == nil {
			_ = r.presenter.Show(ctx, m.Events())
		}
	}
	exit, _ := m.Result()
	return exit, runErr
}

func (r *Runner) drive(ctx context.Context, m *combat.Machine) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if evs := m.Events(); len(evs) > 0 {
			if err := r.presenter.Show(ctx, evs); err != nil {
				return fmt.Errorf("showing events: %w", err)
			}
		}

		var err error
		switch m.Await() {
		case combat.AwaitNothing:
			return nil
		case combat.AwaitAdvance:
			if err = pause(ctx, r.opts.PacingDelay); err == nil {
				err = m.Advance(ctx)
			}
		case combat.AwaitAction:
			err = r.action(ctx, m)
		case combat.AwaitMove:
			err = r.move(ctx, m)
		case combat.AwaitTiming:
			outcome := RunTimingCheck(ctx, r.timing, r.opts.TimingTimeout)
			if err = ctx.Err(); err == nil {
				err = m.SubmitTiming(ctx, outcome)
			}
		case combat.AwaitItem:
			err = r.item(ctx, m)
		case combat.AwaitAcknowledge:
			if err = r.presenter.Acknowledge(ctx, m.Drop()); err == nil {
				err = m.Acknowledge(ctx)
			}
		default:
			return fmt.Errorf("battle %s: unexpected await %s", m.ID(), m.Await())
		}
		if err != nil {
			return err
		}
	}
}

func (r *Runner) action(ctx context.Context, m *combat.Machine) error {
	opt, err := r.presenter.ChooseAction(ctx, actionMenu)
	if err != nil {
		return fmt.Errorf("choosing action: %w", err)
	}
	return r.rejectable(ctx, m.Choose(opt))
}

func (r *Runner) move(ctx context.Context, m *combat.Machine) error {
	idx, back, err := r.presenter.ChooseMove(ctx, m.Moves())
	if err != nil {
		return fmt.Errorf("choosing move: %w", err)
	}
	if back {
		return m.Back()
	}
	return r.rejectable(ctx, m.ConfirmMove(idx))
}

func (r *Runner) item(ctx context.Context, m *combat.Machine) error {
	idx, back, err := r.presenter.ChooseItem(ctx, m.Items(ctx))
	if err != nil {
		return fmt.Errorf("choosing item: %w", err)
	}
	if back {
		return m.Back()
	}
	return r.rejectable(ctx, m.ConfirmItem(ctx, idx))
}

// rejectable turns invalid choices into a notice and a re-prompt.
func (r *Runner) rejectable(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, combat.ErrItemUnavailable):
		return r.presenter.Notice(ctx, "You don't have any of those left.")
	case errors.Is(err, combat.ErrInvalidSelection):
		return r.presenter.Notice(ctx, "That isn't an option right now.")
	default:
		return err
	}
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
