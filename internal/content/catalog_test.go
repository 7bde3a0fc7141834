package content_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/solace/internal/content"
	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/status"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := content.Load("", zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 6, c.Statuses().Len())
	inspired, ok := c.Statuses().Get("inspired")
	require.True(t, ok)
	assert.Equal(t, status.BehaviorPowerBoost, inspired.Behavior)
	assert.True(t, inspired.ConsumeOnUse)

	assert.Len(t, c.Items(), 3)
	assert.Contains(t, c.OpponentIDs(), content.DefaultOpponentID)
	assert.Len(t, c.MemoryIDs(), 5)
	assert.Equal(t, "first_snow", c.MemoryIDs()[0])

	p := c.NewPlayer("p1")
	assert.Equal(t, "Wren", p.Name)
	assert.Equal(t, 100, p.MaxResource)
	assert.Equal(t, 1, p.Level)
	require.Len(t, p.Moves, 5)
	assert.Equal(t, "warm_hug", p.Moves[0].ID)
}

func TestCatalog_UnknownIDsFallBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c, err := content.Load("", zap.New(core))
	require.NoError(t, err)

	opp := c.Opponent("no_such_thing")
	require.NotNil(t, opp)
	assert.Equal(t, content.DefaultOpponentID, opp.ID)
	assert.Equal(t, content.DefaultMoveID, c.Move("no_such_move").ID)
	assert.Equal(t, 2, logs.Len())

	assert.Equal(t, "grumble_cloud", c.Opponent("grumble_cloud").ID)
	assert.Equal(t, 2, logs.Len(), "known ids do not warn")
}

func TestCatalog_PlayerProfileIsCopied(t *testing.T) {
	c, err := content.Load("", zap.NewNop())
	require.NoError(t, err)
	p := c.Player()
	p.Items["chamomile_tea"] = 99
	p.Moves[0] = "changed"
	assert.Equal(t, 2, c.Player().Items["chamomile_tea"])
	assert.Equal(t, "warm_hug", c.Player().Moves[0])
}

func TestCatalog_Memory(t *testing.T) {
	c, err := content.Load("", zap.NewNop())
	require.NoError(t, err)
	m, ok := c.Memory("lantern_walk")
	require.True(t, ok)
	assert.Equal(t, "Lantern Walk", m.Title)
	_, ok = c.Memory("missing")
	assert.False(t, ok)
}

func TestLoad_DirOverridesSingleFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, content.ItemsFile), []byte(`
- id: chamomile_tea
  name: Strong Tea
  category: heal
  value: 40
- id: weighted_blanket
  name: Blanket
  category: comfort
  value: 15
- id: hot_cocoa
  name: Cocoa
  category: special
  value: 10
`), 0o644))

	c, err := content.Load(dir, zap.NewNop())
	require.NoError(t, err)
	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Strong Tea", items[0].Name)
	assert.Equal(t, 40, items[0].Value)
	assert.Len(t, c.MemoryIDs(), 5, "other files come from the defaults")
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := content.Load(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	assert.Error(t, err)
}

// withFile returns the default files with name replaced by body.
func withFile(t *testing.T, name, body string) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, f := range []string{
		content.StatusesFile, content.MovesFile, content.ItemsFile,
		content.OpponentsFile, content.MemoriesFile, content.PlayerFile,
	} {
		data, err := os.ReadFile(filepath.Join("defaults", f))
		require.NoError(t, err)
		fsys[f] = &fstest.MapFile{Data: data}
	}
	fsys[name] = &fstest.MapFile{Data: []byte(body)}
	return fsys
}

func TestLoadFS_Rejects(t *testing.T) {
	cases := []struct {
		name string
		file string
		body string
		want string
	}{
		{
			name: "unknown field",
			file: content.ItemsFile,
			body: "- id: tea\n  name: Tea\n  category: heal\n  value: 5\n  colour: green\n",
			want: "colour",
		},
		{
			name: "invalid move",
			file: content.MovesFile,
			body: "- id: gentle_words\n  name: Gentle Words\n  power: 0\n  category: comfort\n",
			want: "power",
		},
		{
			name: "missing fallback opponent",
			file: content.OpponentsFile,
			body: "- id: grumble\n  name: Grumble\n  level: 1\n  max_stress: 10\n  attack: {name: Drizzle, power: 3}\n",
			want: `fallback opponent "default"`,
		},
		{
			name: "unknown status reference",
			file: content.MovesFile,
			body: "- id: gentle_words\n  name: Gentle Words\n  power: 8\n  category: comfort\n  status_effect: sparkly\n",
			want: "sparkly",
		},
		{
			name: "duplicate memory",
			file: content.MemoriesFile,
			body: "- {id: a, title: A}\n- {id: a, title: B}\n",
			want: "duplicate memory",
		},
		{
			name: "player references unknown move",
			file: content.PlayerFile,
			body: "name: Wren\nmax_resource: 100\nmoves: [backflip]\n",
			want: "backflip",
		},
		{
			name: "bad status behavior",
			file: content.StatusesFile,
			body: "- kind: odd\n  name: Odd\n  behavior: glitter\n",
			want: "glitter",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := content.LoadFS(withFile(t, tc.file, tc.body), zap.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDefaults_AllOpponentsStartBattles(t *testing.T) {
	c, err := content.Load("", zap.NewNop())
	require.NoError(t, err)
	for _, id := range c.OpponentIDs() {
		opp := combatant.NewOpponent("o", c.Opponent(id))
		assert.Equal(t, opp.MaxResource, opp.CurrentResource, id)
		mv := opp.AttackMove()
		assert.NoError(t, mv.Validate(), id)
	}
}
