package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/solace/internal/config"
	"github.com/cory-johannsen/solace/internal/content"
	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/storage/postgres"
	"github.com/cory-johannsen/solace/internal/testutil"
)

func uniqueID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

type repos struct {
	players   *postgres.CombatantRepository
	inventory *postgres.InventoryRepository
	progress  *postgres.ProgressRepository
	catalog   *content.Catalog
}

// setupRepos starts one container per test function.
func setupRepos(t *testing.T) repos {
	t.Helper()
	pool := testutil.NewPool(t)
	catalog, err := content.Load("", zap.NewNop())
	require.NoError(t, err)
	store := postgres.NewStore(pool, catalog)
	return repos{
		players:   store.Combatants,
		inventory: store.Inventory,
		progress:  store.Progress,
		catalog:   catalog,
	}
}

func TestOpen(t *testing.T) {
	cfg := testutil.NewDatabaseConfig(t)
	catalog, err := content.Load("", zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	store, err := postgres.Open(ctx, cfg, catalog)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(ctx, 5*time.Second))

	p := catalog.NewPlayer(uniqueID("open"))
	require.NoError(t, store.Combatants.Save(ctx, p))
	got, err := store.Combatants.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
}

func TestOpen_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := postgres.Open(ctx, config.DatabaseConfig{
		Host: "127.0.0.1", Port: 1, User: "x", Name: "x", SSLMode: "disable", MaxConns: 1,
	}, nil)
	assert.Error(t, err)
}

func TestStore_CreatePlayer(t *testing.T) {
	pool := testutil.NewPool(t)
	catalog, err := content.Load("", zap.NewNop())
	require.NoError(t, err)
	store := postgres.NewStore(pool, catalog)
	ctx := context.Background()

	t.Run("stores player before items", func(t *testing.T) {
		p := catalog.NewPlayer(uniqueID("create"))
		items := catalog.Player().Items
		require.NoError(t, store.CreatePlayer(ctx, p, items))

		got, err := store.Combatants.Load(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Name, got.Name)
		for id, n := range items {
			count, err := store.Inventory.ItemCount(ctx, p.ID, id)
			require.NoError(t, err)
			assert.Equal(t, n, count, "item %s", id)
		}
	})

	t.Run("rolls back the player when an item is rejected", func(t *testing.T) {
		p := catalog.NewPlayer(uniqueID("rollback"))
		err := store.CreatePlayer(ctx, p, map[string]int{"chamomile_tea": 1, "hot_cocoa": 0})
		require.Error(t, err)

		_, err = store.Combatants.Load(ctx, p.ID)
		assert.ErrorIs(t, err, postgres.ErrCombatantNotFound)
		n, err := store.Inventory.ItemCount(ctx, p.ID, "chamomile_tea")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func savedPlayer(t *testing.T, r repos) *combatant.Combatant {
	t.Helper()
	p := r.catalog.NewPlayer(uniqueID("player"))
	require.NoError(t, r.players.Save(context.Background(), p))
	return p
}

func TestCombatantRepository(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	t.Run("load missing", func(t *testing.T) {
		_, err := r.players.Load(ctx, "nobody")
		assert.ErrorIs(t, err, postgres.ErrCombatantNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		p := savedPlayer(t, r)
		got, err := r.players.Load(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, 1, got.Level)
		assert.Equal(t, 100, got.XPToNextLevel)
		assert.Equal(t, p.MaxResource, got.CurrentResource)
		require.Len(t, got.Moves, len(p.Moves))
		assert.Equal(t, p.Moves[0], got.Moves[0])
		assert.Equal(t, 0, got.Statuses.Len())
	})

	t.Run("save updates", func(t *testing.T) {
		p := savedPlayer(t, r)
		p.Level, p.XP, p.XPToNextLevel = 2, 20, 200
		p.MaxResource, p.CurrentResource = 110, 42
		require.NoError(t, r.players.Save(ctx, p))

		got, err := r.players.Load(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Level)
		assert.Equal(t, 20, got.XP)
		assert.Equal(t, 110, got.MaxResource)
		assert.Equal(t, 42, got.CurrentResource)
	})

	t.Run("unknown stored move falls back", func(t *testing.T) {
		p := savedPlayer(t, r)
		p.Moves = append(p.Moves, combatant.Move{ID: "retired_move"})
		require.NoError(t, r.players.Save(ctx, p))
		got, err := r.players.Load(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, content.DefaultMoveID, got.Moves[len(got.Moves)-1].ID)
	})

	t.Run("delete", func(t *testing.T) {
		p := savedPlayer(t, r)
		require.NoError(t, r.players.Delete(ctx, p.ID))
		assert.ErrorIs(t, r.players.Delete(ctx, p.ID), postgres.ErrCombatantNotFound)
	})

	t.Run("rejects out of range resource", func(t *testing.T) {
		p := savedPlayer(t, r)
		p.CurrentResource = p.MaxResource + 1
		assert.Error(t, r.players.Save(ctx, p))
	})
}

func TestInventoryRepository(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := savedPlayer(t, r)
	inv := r.inventory.ForPlayer(p.ID)

	n, err := inv.ItemCount(ctx, "chamomile_tea")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	ok, err := inv.ConsumeItem(ctx, "chamomile_tea")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.inventory.Grant(ctx, p.ID, "chamomile_tea", 2))
	require.NoError(t, r.inventory.Grant(ctx, p.ID, "chamomile_tea", 1))
	n, err = inv.ItemCount(ctx, "chamomile_tea")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for i := 0; i < 3; i++ {
		ok, err = inv.ConsumeItem(ctx, "chamomile_tea")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err = inv.ConsumeItem(ctx, "chamomile_tea")
	require.NoError(t, err)
	assert.False(t, ok, "never goes below zero")

	assert.Error(t, r.inventory.Grant(ctx, p.ID, "chamomile_tea", 0))
}

func TestInventoryRepository_ConcurrentConsumeNeverOversells(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := savedPlayer(t, r)
	require.NoError(t, r.inventory.Grant(ctx, p.ID, "hot_cocoa", 3))
	inv := r.inventory.ForPlayer(p.ID)

	var consumed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := inv.ConsumeItem(ctx, "hot_cocoa")
			assert.NoError(t, err)
			if ok {
				consumed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(3), consumed.Load())
}

func TestProgressRepository(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := savedPlayer(t, r)
	prog := r.progress.ForPlayer(p.ID, 5)

	total, err := prog.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	has, err := prog.IsCollected(ctx, "first_snow")
	require.NoError(t, err)
	assert.False(t, has)

	marked, err := prog.MarkCollected(ctx, "first_snow")
	require.NoError(t, err)
	assert.True(t, marked)
	marked, err = prog.MarkCollected(ctx, "first_snow")
	require.NoError(t, err)
	assert.False(t, marked, "second mark is a no-op")

	has, err = prog.IsCollected(ctx, "first_snow")
	require.NoError(t, err)
	assert.True(t, has)
	n, err := prog.CollectedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	other := r.progress.ForPlayer(savedPlayer(t, r).ID, 5)
	n, err = other.CollectedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "progress is per player")
}

func TestPropertyProgress_CountMatchesDistinctMarks(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	rapid.Check(t, func(rt *rapid.T) {
		p := r.catalog.NewPlayer(uniqueID("prop"))
		if err := r.players.Save(ctx, p); err != nil {
			rt.Fatalf("save: %v", err)
		}
		prog := r.progress.ForPlayer(p.ID, 5)
		ids := rapid.SliceOf(rapid.SampledFrom(r.catalog.MemoryIDs())).Draw(rt, "ids")
		distinct := map[string]bool{}
		for _, id := range ids {
			marked, err := prog.MarkCollected(ctx, id)
			if err != nil {
				rt.Fatalf("mark: %v", err)
			}
			if marked == distinct[id] {
				rt.Fatalf("mark %q returned %v after %d prior marks", id, marked, len(distinct))
			}
			distinct[id] = true
		}
		n, err := prog.CollectedCount(ctx)
		if err != nil {
			rt.Fatalf("count: %v", err)
		}
		if n != len(distinct) {
			rt.Fatalf("count %d, want %d", n, len(distinct))
		}
	})
}
