package reward

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/game/dice"
)

// Progress is the persisted collection of a single player.
// Implementations live in the storage packages.
type Progress interface {
	IsCollected(ctx context.Context, id string) (bool, error)
	// MarkCollected records id; it returns false if id was already collected.
	MarkCollected(ctx context.Context, id string) (bool, error)
	CollectedCount(ctx context.Context) (int, error)
	TotalCount(ctx context.Context) (int, error)
}

// Selector applies the SelectDrop rule over a Progress collaborator.
type Selector struct {
	progress Progress
	catalog  []string
	src      dice.Source
	logger   *zap.Logger
}

// NewSelector creates a Selector drawing from catalog.
//
// Precondition: progress, src and logger must be non-nil.
func NewSelector(progress Progress, catalog []string, src dice.Source, logger *zap.Logger) *Selector {
	return &Selector{
		progress: progress,
		catalog:  append([]string(nil), catalog...),
		src:      src,
		logger:   logger,
	}
}

// Select draws one uncollected catalog id, marks it collected and reports
// whether the collection is complete.
//
// Postcondition: Found is false when every id is already collected or when
// the mark lost a race with another writer.
func (s *Selector) Select(ctx context.Context) (Drop, error) {
	owned := NewCollection()
	for _, id := range s.catalog {
		ok, err := s.progress.IsCollected(ctx, id)
		if err != nil {
			return Drop{}, fmt.Errorf("checking %q: %w", id, err)
		}
		if ok {
			owned.Mark(id)
		}
	}

	pool := Uncollected(owned, s.catalog)
	if len(pool) == 0 {
		return Drop{AllCollected: true}, nil
	}
	id := pool[dice.Pick(s.src, len(pool))]
	marked, err := s.progress.MarkCollected(ctx, id)
	if err != nil {
		return Drop{}, fmt.Errorf("marking %q: %w", id, err)
	}
	if !marked {
		s.logger.Warn("drop already collected", zap.String("id", id))
	}

	all, err := s.complete(ctx)
	if err != nil {
		return Drop{}, err
	}
	if !marked {
		return Drop{AllCollected: all}, nil
	}
	return Drop{ID: id, Found: true, AllCollected: all}, nil
}

func (s *Selector) complete(ctx context.Context) (bool, error) {
	n, err := s.progress.CollectedCount(ctx)
	if err != nil {
		return false, fmt.Errorf("counting collected: %w", err)
	}
	total, err := s.progress.TotalCount(ctx)
	if err != nil {
		return false, fmt.Errorf("counting total: %w", err)
	}
	return n >= total, nil
}
