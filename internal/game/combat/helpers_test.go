package combat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/game/combat"
	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/dice"
	"github.com/cory-johannsen/solace/internal/game/status"
	"github.com/cory-johannsen/solace/internal/scripting"
)

// Move indexes of testPlayer.
const (
	moveHug = iota
	moveCuddle
	movePepTalk
	moveLullaby
	moveYawn
	moveFluster
)

func testRegistry() *status.Registry {
	reg := status.NewRegistry()
	reg.Register(&status.Def{Kind: "inspired", Name: "Inspired", Behavior: status.BehaviorPowerBoost, Multiplier: 2, ConsumeOnUse: true})
	reg.Register(&status.Def{Kind: "cozy", Name: "Cozy", Behavior: status.BehaviorDefenseBoost, Multiplier: 0.5})
	reg.Register(&status.Def{Kind: "tired", Name: "Tired", Behavior: status.BehaviorPowerReduction, Multiplier: 0.7})
	reg.Register(&status.Def{Kind: "drowsy", Name: "Drowsy", Behavior: status.BehaviorSkipChance, Chance: 1})
	reg.Register(&status.Def{Kind: "flustered", Name: "Flustered", Behavior: status.BehaviorSelfHarmChance, Chance: 1})
	reg.Register(&status.Def{Kind: "soothed", Name: "Soothed", Behavior: status.BehaviorPassiveHeal, Amount: 5})
	return reg
}

func def(t *testing.T, kind status.Kind) *status.Def {
	t.Helper()
	d, ok := testRegistry().Get(kind)
	require.True(t, ok, "unknown test status %q", kind)
	return d
}

func testMoves() []combatant.Move {
	return []combatant.Move{
		moveHug:     {ID: "hug", Name: "Warm Hug", Power: 20, Category: combatant.CategoryComfort},
		moveCuddle:  {ID: "cuddle", Name: "Cuddle", Power: 10, Category: combatant.CategoryHeal},
		movePepTalk: {ID: "pep_talk", Name: "Pep Talk", Power: 10, Category: combatant.CategoryComfort, SelfStatus: "inspired"},
		moveLullaby: {ID: "lullaby", Name: "Lullaby", Power: 5, Category: combatant.CategoryComfort, StatusEffect: "drowsy", StatusChance: 1},
		moveYawn:    {ID: "yawn", Name: "Big Yawn", Power: 5, Category: combatant.CategoryComfort, SelfStatus: "drowsy"},
		moveFluster: {ID: "fluster", Name: "Compliment", Power: 5, Category: combatant.CategoryComfort, StatusEffect: "flustered", StatusChance: 1},
	}
}

func testPlayer() *combatant.Combatant {
	return combatant.NewPlayer("p1", "Wren", 100, testMoves())
}

func testOpponent() *combatant.Opponent {
	return combatant.NewOpponent("o1", &combatant.Template{
		ID: "grumble", Name: "Grumble Cloud", Level: 1, MaxStress: 50,
		Attack:   combatant.Attack{Name: "Drizzle", Power: 10},
		RewardXP: 120, RewardResource: 10,
	})
}

func testItems() []combatant.Item {
	return []combatant.Item{
		{ID: "tea", Name: "Chamomile Tea", Category: combatant.CategoryHeal, Value: 15},
		{ID: "blanket", Name: "Weighted Blanket", Category: combatant.CategoryComfort, Value: 12},
		{ID: "cocoa", Name: "Hot Cocoa", Category: combatant.CategorySpecial, Value: 8},
	}
}

func newResolver(src dice.Source, rules combat.Rules) *combat.Resolver {
	logger := zap.NewNop()
	return combat.NewResolver(rules, testRegistry(), dice.NewLoggedRoller(src, logger), logger)
}

func newEngine(src dice.Source, rules combat.Rules, narrator combat.Narrator) *combat.Engine {
	return combat.NewEngine(newResolver(src, rules), testItems(), narrator, zap.NewNop())
}

// startBattle starts a battle and advances it past INTRO.
func startBattle(t *testing.T, eng *combat.Engine, player *combatant.Combatant, opp *combatant.Opponent, collab combat.Collaborators) *combat.Machine {
	t.Helper()
	m, err := eng.Start(combat.Entry{Player: player, Opponent: opp, ReturnContext: "meadow"}, collab)
	require.NoError(t, err)
	require.Equal(t, combat.StateIntro, m.State())
	require.NoError(t, m.Advance(context.Background()))
	require.Equal(t, combat.StatePlayerTurn, m.State())
	require.Equal(t, combat.AwaitAction, m.Await())
	m.Events()
	return m
}

// useMove runs one full player move from the action menu.
func useMove(t *testing.T, m *combat.Machine, index int, timing combat.TimingOutcome) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, m.Choose(combat.OptionComfort))
	require.NoError(t, m.ConfirmMove(index))
	require.NoError(t, m.SubmitTiming(ctx, timing))
}

func kinds(evs []combat.Event) []combat.EventKind {
	out := make([]combat.EventKind, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Kind)
	}
	return out
}

func ofKind(evs []combat.Event, k combat.EventKind) []combat.Event {
	var out []combat.Event
	for _, e := range evs {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

type recordingNarrator struct {
	hooks []string
}

func (n *recordingNarrator) Narrate(hook string, info scripting.NarrationInfo) []string {
	n.hooks = append(n.hooks, hook)
	return []string{hook + ":" + info.OpponentName}
}
