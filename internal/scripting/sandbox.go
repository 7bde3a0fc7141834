// Package scripting provides a sandboxed GopherLua environment for battle
// narration hooks. It has no dependency on the battle packages; callers pass
// plain snapshots in and receive narration lines back.
package scripting

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode allowance of one script execution
// when no limit is configured.
const DefaultInstructionLimit = 100_000

// ErrBudgetExhausted is the context error of a spent Budget.
var ErrBudgetExhausted = errors.New("scripting: instruction budget exhausted")

// Budget is the context.Context installed on a sandboxed LState. GopherLua
// checks Done once per opcode, so Done closes after the allowance of calls
// and the VM stops at the next opcode boundary. Refill starts a new allowance.
type Budget struct {
	limit int64
	left  atomic.Int64
	done  atomic.Pointer[chan struct{}]

	mu        sync.Mutex
	exhausted bool
}

func newBudget(limit int) *Budget {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	b := &Budget{limit: int64(limit)}
	b.Refill()
	return b
}

// Deadline reports no deadline; the budget counts opcodes, not time.
func (b *Budget) Deadline() (time.Time, bool) { return time.Time{}, false }

// Value carries no values.
func (b *Budget) Value(any) any { return nil }

// Done spends one opcode and returns the channel closed on exhaustion.
func (b *Budget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.Exhaust()
	}
	return *b.done.Load()
}

// Err returns ErrBudgetExhausted once the allowance is spent.
func (b *Budget) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.exhausted {
		return ErrBudgetExhausted
	}
	return nil
}

// Exhaust spends the remaining allowance immediately.
func (b *Budget) Exhaust() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.exhausted {
		b.exhausted = true
		b.left.Store(0)
		close(*b.done.Load())
	}
}

// Refill restores the full allowance.
//
// Postcondition: Err() == nil and Remaining() equals the configured limit.
func (b *Budget) Refill() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.exhausted || b.done.Load() == nil {
		ch := make(chan struct{})
		b.done.Store(&ch)
		b.exhausted = false
	}
	b.left.Store(b.limit)
}

// Remaining returns the opcodes left in the current allowance.
func (b *Budget) Remaining() int {
	if n := b.left.Load(); n > 0 {
		return int(n)
	}
	return 0
}

// NewSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - A Budget of instLimit opcodes installed as its context
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: The caller owns the LState and must call L.Close() when done.
func NewSandboxedState(instLimit int) (*lua.LState, *Budget) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	b := newBudget(instLimit)
	L.SetContext(b)
	return L, b
}
