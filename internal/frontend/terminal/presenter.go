package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cory-johannsen/solace/internal/game/combat"
	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/dice"
	"github.com/cory-johannsen/solace/internal/game/reward"
)

// TimingWindows shapes the timing check: the cue appears after
// CueDelay plus up to CueSpread, and the reaction time is graded against
// Perfect and Good.
type TimingWindows struct {
	CueDelay  time.Duration
	CueSpread time.Duration
	Perfect   time.Duration
	Good      time.Duration
}

// DefaultTimingWindows returns the windows used by the simulator.
func DefaultTimingWindows() TimingWindows {
	return TimingWindows{
		CueDelay:  400 * time.Millisecond,
		CueSpread: 800 * time.Millisecond,
		Perfect:   300 * time.Millisecond,
		Good:      700 * time.Millisecond,
	}
}

// Grade maps a reaction time to a timing outcome.
//
// Postcondition: PERFECT for d <= Perfect, GOOD for d <= Good, MISS otherwise.
func (w TimingWindows) Grade(d time.Duration) combat.TimingOutcome {
	switch {
	case d <= w.Perfect:
		return combat.TimingPerfect
	case d <= w.Good:
		return combat.TimingGood
	default:
		return combat.TimingMiss
	}
}

// Presenter plays a battle over a line-oriented text stream. It satisfies
// session.Presenter and session.TimingChecker.
//
// Presenter is not safe for concurrent use.
type Presenter struct {
	out     io.Writer
	lines   <-chan string
	render  *Renderer
	src     dice.Source
	windows TimingWindows
}

// NewPresenter creates a Presenter reading player input from in and writing to out.
// A goroutine reads in until EOF.
//
// Precondition: in, out, render and src must be non-nil.
func NewPresenter(in io.Reader, out io.Writer, render *Renderer, src dice.Source, windows TimingWindows) *Presenter {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return &Presenter{out: out, lines: lines, render: render, src: src, windows: windows}
}

// Show prints every event that has a text form.
func (p *Presenter) Show(_ context.Context, events []combat.Event) error {
	for _, ev := range events {
		if line := p.render.Event(ev); line != "" {
			if err := p.println(line); err != nil {
				return err
			}
		}
	}
	return nil
}

// Notice prints a rejected-choice message.
func (p *Presenter) Notice(_ context.Context, message string) error {
	return p.println(p.render.style.Colorize(Yellow, message))
}

// ChooseAction prompts until the player picks one of options.
func (p *Presenter) ChooseAction(ctx context.Context, options []combat.Option) (combat.Option, error) {
	for {
		if err := p.print(p.render.ActionMenu(options)); err != nil {
			return 0, err
		}
		n, err := p.readNumber(ctx)
		if err != nil {
			return 0, err
		}
		if n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		if err := p.println("Pick one of the listed actions."); err != nil {
			return 0, err
		}
	}
}

// ChooseMove prompts for a move. Entering 0 goes back; other numbers are
// passed through for the battle to accept or reject.
func (p *Presenter) ChooseMove(ctx context.Context, moves []combatant.Move) (int, bool, error) {
	if err := p.print(p.render.MoveMenu(moves)); err != nil {
		return 0, false, err
	}
	return p.readSelection(ctx)
}

// ChooseItem prompts for an item. Entering 0 goes back.
func (p *Presenter) ChooseItem(ctx context.Context, items []combat.ItemChoice) (int, bool, error) {
	if err := p.print(p.render.ItemMenu(items)); err != nil {
		return 0, false, err
	}
	return p.readSelection(ctx)
}

// Acknowledge shows the dropped memory and waits for Enter.
func (p *Presenter) Acknowledge(ctx context.Context, drop reward.Drop) error {
	if text := p.render.Memory(drop); text != "" {
		if err := p.println(text); err != nil {
			return err
		}
	}
	if err := p.println(p.render.style.Colorize(Dim, "Press Enter to continue.")); err != nil {
		return err
	}
	_, err := p.readLine(ctx)
	return err
}

// RunTimingCheck shows a cue after a random delay and grades how quickly
// the player presses Enter. Pressing before the cue is a MISS.
func (p *Presenter) RunTimingCheck(ctx context.Context) (combat.TimingOutcome, error) {
	p.drain()
	if err := p.println(p.render.style.Colorize(Cyan, "Steady... press Enter on the heartbeat.")); err != nil {
		return combat.TimingMiss, err
	}

	wait := p.windows.CueDelay
	if spread := int(p.windows.CueSpread / time.Millisecond); spread > 0 {
		wait += time.Duration(p.src.Intn(spread+1)) * time.Millisecond
	}
	cue := time.NewTimer(wait)
	defer cue.Stop()

	select {
	case <-ctx.Done():
		return combat.TimingMiss, ctx.Err()
	case _, ok := <-p.lines:
		if !ok {
			return combat.TimingMiss, io.EOF
		}
		return combat.TimingMiss, p.println(p.render.style.Colorize(Dim, "Too soon."))
	case <-cue.C:
	}

	if err := p.println(p.render.style.Colorize(Bold+BrightMagenta, "NOW!")); err != nil {
		return combat.TimingMiss, err
	}
	cued := time.Now()
	if _, err := p.readLine(ctx); err != nil {
		return combat.TimingMiss, err
	}
	return p.windows.Grade(time.Since(cued)), nil
}

// Confirm asks a yes/no question; anything but y or yes is no.
func (p *Presenter) Confirm(ctx context.Context, question string) (bool, error) {
	if err := p.print(question + " [y/N] "); err != nil {
		return false, err
	}
	line, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Banner prints a header line.
func (p *Presenter) Banner(title string) error {
	return p.println("\n" + p.render.Header(title))
}

func (p *Presenter) readSelection(ctx context.Context) (int, bool, error) {
	n, err := p.readNumber(ctx)
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, true, nil
	}
	return n - 1, false, nil
}

func (p *Presenter) readNumber(ctx context.Context) (int, error) {
	for {
		if err := p.print("> "); err != nil {
			return 0, err
		}
		line, err := p.readLine(ctx)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		if err := p.println("Enter a number."); err != nil {
			return 0, err
		}
	}
}

func (p *Presenter) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// drain discards input typed ahead of a timing check.
func (p *Presenter) drain() {
	for {
		select {
		case _, ok := <-p.lines:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (p *Presenter) print(s string) error {
	_, err := io.WriteString(p.out, s)
	return err
}

func (p *Presenter) println(s string) error {
	_, err := fmt.Fprintln(p.out, s)
	return err
}
