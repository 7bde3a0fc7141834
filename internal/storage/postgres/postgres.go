// Package postgres provides PostgreSQL persistence for players, their
// inventories and their collected memories using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/solace/internal/config"
	"github.com/cory-johannsen/solace/internal/game/combatant"
)

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store owns a connection pool and the repositories built on it.
type Store struct {
	pool       *pgxpool.Pool
	Combatants *CombatantRepository
	Inventory  *InventoryRepository
	Progress   *ProgressRepository
}

// Open connects to the database described by cfg and builds a Store on it.
//
// Precondition: cfg must contain valid connection parameters; moves must be non-nil.
// Postcondition: Returns a Store whose pool answered a ping, or a non-nil error.
func Open(ctx context.Context, cfg config.DatabaseConfig, moves MoveCatalog) (*Store, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewStore(pool, moves), nil
}

// NewStore builds the repositories over an existing pool. The Store takes
// ownership of pool and closes it on Close.
func NewStore(pool *pgxpool.Pool, moves MoveCatalog) *Store {
	return &Store{
		pool:       pool,
		Combatants: NewCombatantRepository(pool, moves),
		Inventory:  NewInventoryRepository(pool),
		Progress:   NewProgressRepository(pool),
	}
}

// Connect creates a pgx pool tuned from cfg and verifies it with a ping.
//
// Postcondition: Returns a connected pool or a non-nil error; no pool is
// leaked on failure.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "solace"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return pool, nil
}

// CreatePlayer stores a new player together with its starting items in one
// transaction.
//
// Precondition: c must be non-nil with a non-empty ID.
// Postcondition: Either the player row and every item row exist, or nothing
// was written.
func (s *Store) CreatePlayer(ctx context.Context, c *combatant.Combatant, items map[string]int) error {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := savePlayer(ctx, tx, c); err != nil {
			return err
		}
		for _, id := range ids {
			if err := grantItem(ctx, tx, c.ID, id, items[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	return nil
}

// Ping checks that the database answers within timeout.
func (s *Store) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}
