package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/config"
	"github.com/cory-johannsen/solace/internal/content"
	"github.com/cory-johannsen/solace/internal/game/combat"
	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/reward"
	"github.com/cory-johannsen/solace/internal/storage/memory"
	"github.com/cory-johannsen/solace/internal/storage/postgres"
	"github.com/cory-johannsen/solace/internal/storage/redis"
)

type playerRepository interface {
	Load(ctx context.Context, id string) (*combatant.Combatant, error)
	Save(ctx context.Context, c *combatant.Combatant) error
}

// store bundles the persistence one simulator run uses for its player.
type store struct {
	players   playerRepository
	inventory combat.Inventory
	progress  reward.Progress
	// create stores a new player together with its starting items.
	create  func(ctx context.Context, p *combatant.Combatant, items map[string]int) error
	closers []func()
}

func openStore(ctx context.Context, cfg config.Config, playerID string, catalog *content.Catalog, logger *zap.Logger) (*store, error) {
	total := len(catalog.MemoryIDs())
	st := &store{}

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg, err := postgres.Open(ctx, cfg.Database, catalog)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		st.closers = append(st.closers, pg.Close)
		logger.Info("database connected", zap.String("host", cfg.Database.Host))

		st.players = pg.Combatants
		st.inventory = pg.Inventory.ForPlayer(playerID)
		st.progress = pg.Progress.ForPlayer(playerID, total)
		st.create = pg.CreatePlayer
	default:
		inventory := memory.NewInventory(nil)
		players := memory.NewCombatants()
		st.players = players
		st.inventory = inventory
		st.progress = memory.NewProgress(total)
		st.create = func(ctx context.Context, p *combatant.Combatant, items map[string]int) error {
			if err := players.Save(ctx, p); err != nil {
				return err
			}
			for id, n := range items {
				inventory.Add(id, n)
			}
			return nil
		}
	}

	if cfg.Redis.Enabled {
		rs, err := redis.NewStore(ctx, cfg.Redis)
		if err != nil {
			st.close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		st.closers = append(st.closers, func() { _ = rs.Close() })
		st.progress = rs.Progress(playerID, total)
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}
	return st, nil
}

// loadPlayer returns the stored player, creating it from the starting
// profile on first use.
func (s *store) loadPlayer(ctx context.Context, id string, catalog *content.Catalog) (*combatant.Combatant, bool, error) {
	p, err := s.players.Load(ctx, id)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, memory.ErrCombatantNotFound) && !errors.Is(err, postgres.ErrCombatantNotFound) {
		return nil, false, fmt.Errorf("loading player %q: %w", id, err)
	}

	p = catalog.NewPlayer(id)
	if err := s.create(ctx, p, catalog.Player().Items); err != nil {
		return nil, false, fmt.Errorf("creating player %q: %w", id, err)
	}
	return p, true, nil
}

func (s *store) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
