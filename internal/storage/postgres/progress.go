package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressRepository records which memories each player has collected.
type ProgressRepository struct {
	db *pgxpool.Pool
}

// NewProgressRepository creates a ProgressRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ForPlayer returns the reward progress collaborator for playerID over a
// catalog of total memories.
func (r *ProgressRepository) ForPlayer(playerID string, total int) *PlayerProgress {
	return &PlayerProgress{db: r.db, playerID: playerID, total: total}
}

// PlayerProgress is one player's collected-memory set.
type PlayerProgress struct {
	db       *pgxpool.Pool
	playerID string
	total    int
}

// IsCollected reports whether the player has memoryID.
func (p *PlayerProgress) IsCollected(ctx context.Context, memoryID string) (bool, error) {
	var ok bool
	err := p.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM collected_memories WHERE player_id = $1 AND memory_id = $2)`,
		p.playerID, memoryID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking memory %q: %w", memoryID, err)
	}
	return ok, nil
}

// MarkCollected records memoryID.
//
// Postcondition: Returns false when the memory was already collected.
func (p *PlayerProgress) MarkCollected(ctx context.Context, memoryID string) (bool, error) {
	tag, err := p.db.Exec(ctx, `
		INSERT INTO collected_memories (player_id, memory_id) VALUES ($1, $2)
		ON CONFLICT (player_id, memory_id) DO NOTHING`,
		p.playerID, memoryID,
	)
	if err != nil {
		return false, fmt.Errorf("marking memory %q: %w", memoryID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// CollectedCount returns how many memories the player has.
func (p *PlayerProgress) CollectedCount(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM collected_memories WHERE player_id = $1`,
		p.playerID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting memories: %w", err)
	}
	return n, nil
}

// TotalCount returns the catalog size.
func (p *PlayerProgress) TotalCount(context.Context) (int, error) {
	return p.total, nil
}
