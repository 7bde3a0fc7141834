package terminal

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/solace/internal/content"
	"github.com/cory-johannsen/solace/internal/game/combat"
	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/reward"
)

// MemoryLookup resolves a memory id to its catalog entry.
type MemoryLookup func(id string) (content.Memory, bool)

// Renderer formats battle events and menus as styled text lines.
type Renderer struct {
	style    Style
	memories MemoryLookup
}

// NewRenderer creates a Renderer.
//
// Precondition: memories may be nil, in which case drops are shown by id.
func NewRenderer(style Style, memories MemoryLookup) *Renderer {
	return &Renderer{style: style, memories: memories}
}

// Event formats one battle event.
//
// Postcondition: Returns "" for events that have no text form.
func (r *Renderer) Event(ev combat.Event) string {
	s := r.style
	switch ev.Kind {
	case combat.EventNarration:
		return s.Colorize(White, ev.Text)
	case combat.EventDamage:
		if ev.Critical {
			return s.Colorf(BrightMagenta, "Perfect! %s loses %d.", ev.TargetName, ev.Amount)
		}
		return s.Colorf(Cyan, "%s loses %d.", ev.TargetName, ev.Amount)
	case combat.EventHeal:
		return s.Colorf(Green, "%s recovers %d.", ev.TargetName, ev.Amount)
	case combat.EventStatusApplied:
		return s.Colorf(Yellow, "%s is %s.", ev.TargetName, ev.Status)
	case combat.EventStatusExpired:
		return s.Colorf(Dim, "%s is no longer %s.", ev.TargetName, ev.Status)
	case combat.EventLevelUp:
		return s.Colorf(BrightYellow, "%s reached level %d!", ev.TargetName, ev.Level)
	case combat.EventDropFound:
		line := s.Colorf(BrightMagenta, "You found a memory: %s", r.memoryTitle(ev.DropID))
		if ev.AllCollected {
			line += "\n" + s.Colorize(BrightMagenta, "Every memory has been found.")
		}
		return line
	case combat.EventBattleEnded:
		return s.Colorf(Bold, "The battle ends: %s.", ev.Outcome)
	default:
		return ""
	}
}

// Header formats a title with an underline matching its printable width.
func (r *Renderer) Header(title string) string {
	styled := r.style.Colorize(BrightWhite, title)
	return styled + "\n" + strings.Repeat("-", len(StripANSI(styled)))
}

// ActionMenu formats the top-level action menu, numbered from 1.
func (r *Renderer) ActionMenu(options []combat.Option) string {
	var b strings.Builder
	for i, opt := range options {
		b.WriteString(fmt.Sprintf("  %s%d)%s %s\n", BrightCyan, i+1, Reset, opt))
	}
	return r.strip(b.String())
}

// MoveMenu formats the move list, numbered from 1, with 0 as back.
func (r *Renderer) MoveMenu(moves []combatant.Move) string {
	var b strings.Builder
	for i, mv := range moves {
		b.WriteString(fmt.Sprintf("  %s%d)%s %-14s %s%s %d%s\n",
			BrightCyan, i+1, Reset, mv.Name, Dim, mv.Category, mv.Power, Reset))
	}
	b.WriteString(fmt.Sprintf("  %s0)%s Back\n", BrightCyan, Reset))
	return r.strip(b.String())
}

// ItemMenu formats the item list with counts, numbered from 1, with 0 as back.
func (r *Renderer) ItemMenu(items []combat.ItemChoice) string {
	var b strings.Builder
	for i, it := range items {
		b.WriteString(fmt.Sprintf("  %s%d)%s %-16s x%d %s%s%s\n",
			BrightCyan, i+1, Reset, it.Item.Name, it.Count, Dim, it.Item.Description, Reset))
	}
	b.WriteString(fmt.Sprintf("  %s0)%s Back\n", BrightCyan, Reset))
	return r.strip(b.String())
}

// Memory formats the full text of a dropped memory.
func (r *Renderer) Memory(drop reward.Drop) string {
	if !drop.Found {
		return ""
	}
	title := r.memoryTitle(drop.ID)
	text := ""
	if r.memories != nil {
		if m, ok := r.memories(drop.ID); ok {
			text = m.Text
		}
	}
	out := r.Header(title)
	if text != "" {
		out += "\n" + r.style.Colorize(Magenta, strings.TrimSpace(text))
	}
	return out
}

func (r *Renderer) memoryTitle(id string) string {
	if r.memories != nil {
		if m, ok := r.memories(id); ok && m.Title != "" {
			return m.Title
		}
	}
	return id
}

func (r *Renderer) strip(s string) string {
	if r.style.Disabled {
		return StripANSI(s)
	}
	return s
}
