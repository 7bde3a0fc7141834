package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository persists item quantities per player.
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates an InventoryRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ItemCount returns how many of itemID the player holds; 0 when no row exists.
func (r *InventoryRepository) ItemCount(ctx context.Context, playerID, itemID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT quantity FROM player_items WHERE player_id = $1 AND item_id = $2`,
		playerID, itemID,
	).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("counting item %q: %w", itemID, err)
	}
	return n, nil
}

// Consume removes one unit of itemID in a single conditional update.
//
// Postcondition: Returns false without change when the player holds none.
func (r *InventoryRepository) Consume(ctx context.Context, playerID, itemID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE player_items SET quantity = quantity - 1
		WHERE player_id = $1 AND item_id = $2 AND quantity > 0`,
		playerID, itemID,
	)
	if err != nil {
		return false, fmt.Errorf("consuming item %q: %w", itemID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Grant adds n units of itemID to the player.
//
// Precondition: n must be > 0; the player row must exist.
func (r *InventoryRepository) Grant(ctx context.Context, playerID, itemID string, n int) error {
	return grantItem(ctx, r.db, playerID, itemID, n)
}

func grantItem(ctx context.Context, db execer, playerID, itemID string, n int) error {
	if n <= 0 {
		return fmt.Errorf("granting item %q: count must be > 0, got %d", itemID, n)
	}
	_, err := db.Exec(ctx, `
		INSERT INTO player_items (player_id, item_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (player_id, item_id) DO UPDATE SET quantity = player_items.quantity + EXCLUDED.quantity`,
		playerID, itemID, n,
	)
	if err != nil {
		return fmt.Errorf("granting item %q: %w", itemID, err)
	}
	return nil
}

// ForPlayer returns the battle inventory collaborator for playerID.
func (r *InventoryRepository) ForPlayer(playerID string) *PlayerInventory {
	return &PlayerInventory{repo: r, playerID: playerID}
}

// PlayerInventory is one player's view of the InventoryRepository.
type PlayerInventory struct {
	repo     *InventoryRepository
	playerID string
}

// ItemCount returns how many of id the player holds.
func (p *PlayerInventory) ItemCount(ctx context.Context, id string) (int, error) {
	return p.repo.ItemCount(ctx, p.playerID, id)
}

// ConsumeItem removes one unit of id.
func (p *PlayerInventory) ConsumeItem(ctx context.Context, id string) (bool, error) {
	return p.repo.Consume(ctx, p.playerID, id)
}
