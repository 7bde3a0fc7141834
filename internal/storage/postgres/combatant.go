package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/solace/internal/game/combatant"
)

// ErrCombatantNotFound is returned when a player lookup yields no results.
var ErrCombatantNotFound = errors.New("combatant not found")

// MoveCatalog resolves stored move ids back into moves.
type MoveCatalog interface {
	Moves(ids []string) []combatant.Move
}

// CombatantRepository persists player combatants. Statuses are battle-scoped
// and never stored.
type CombatantRepository struct {
	db    *pgxpool.Pool
	moves MoveCatalog
}

// NewCombatantRepository creates a CombatantRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool; moves must be non-nil.
func NewCombatantRepository(db *pgxpool.Pool, moves MoveCatalog) *CombatantRepository {
	return &CombatantRepository{db: db, moves: moves}
}

// Load retrieves the player with id.
//
// Postcondition: Returns the Combatant with moves resolved through the
// catalog, or ErrCombatantNotFound.
func (r *CombatantRepository) Load(ctx context.Context, id string) (*combatant.Combatant, error) {
	var (
		c       combatant.Combatant
		moveIDs []string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, level, xp, xp_to_next_level, max_resource, current_resource, moves
		FROM players WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Level, &c.XP, &c.XPToNextLevel, &c.MaxResource, &c.CurrentResource, &moveIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCombatantNotFound
		}
		return nil, fmt.Errorf("querying player %q: %w", id, err)
	}
	c.Moves = r.moves.Moves(moveIDs)
	return &c, nil
}

// Save inserts or replaces the player record.
//
// Precondition: c must be non-nil with a non-empty ID.
// Postcondition: Returns nil once the row reflects c.
func (r *CombatantRepository) Save(ctx context.Context, c *combatant.Combatant) error {
	return savePlayer(ctx, r.db, c)
}

func savePlayer(ctx context.Context, db execer, c *combatant.Combatant) error {
	if c == nil || c.ID == "" {
		return errors.New("saving player: id must not be empty")
	}
	moveIDs := make([]string, 0, len(c.Moves))
	for _, mv := range c.Moves {
		moveIDs = append(moveIDs, mv.ID)
	}
	_, err := db.Exec(ctx, `
		INSERT INTO players (id, name, level, xp, xp_to_next_level, max_resource, current_resource, moves)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			level = EXCLUDED.level,
			xp = EXCLUDED.xp,
			xp_to_next_level = EXCLUDED.xp_to_next_level,
			max_resource = EXCLUDED.max_resource,
			current_resource = EXCLUDED.current_resource,
			moves = EXCLUDED.moves,
			updated_at = NOW()`,
		c.ID, c.Name, c.Level, c.XP, c.XPToNextLevel, c.MaxResource, c.CurrentResource, moveIDs,
	)
	if err != nil {
		return fmt.Errorf("saving player %q: %w", c.ID, err)
	}
	return nil
}

// Delete removes the player and, by cascade, its items and memories.
//
// Postcondition: Returns ErrCombatantNotFound if no row was deleted.
func (r *CombatantRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting player %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCombatantNotFound
	}
	return nil
}
