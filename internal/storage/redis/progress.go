// Package redis keeps per-player memory collection progress in Redis sets.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/solace/internal/config"
)

// Store is a connected Redis client scoped by a key prefix.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection.
//
// Precondition: cfg.Addr must be non-empty.
// Postcondition: Returns a connected Store or a non-nil error.
func NewStore(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis %s: %w", cfg.Addr, err)
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "solace"
	}
	return &Store{client: client, prefix: prefix}, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Progress returns the reward progress collaborator for playerID over a
// catalog of total memories.
func (s *Store) Progress(playerID string, total int) *Progress {
	return &Progress{
		client: s.client,
		key:    fmt.Sprintf("%s:memories:%s", s.prefix, playerID),
		total:  total,
	}
}

// Reset forgets every memory collected by playerID.
func (s *Store) Reset(ctx context.Context, playerID string) error {
	return s.client.Del(ctx, s.Progress(playerID, 0).key).Err()
}

// Progress is one player's collected-memory set.
type Progress struct {
	client *goredis.Client
	key    string
	total  int
}

// IsCollected reports whether memoryID is in the set.
func (p *Progress) IsCollected(ctx context.Context, memoryID string) (bool, error) {
	ok, err := p.client.SIsMember(ctx, p.key, memoryID).Result()
	if err != nil {
		return false, fmt.Errorf("checking memory %q: %w", memoryID, err)
	}
	return ok, nil
}

// MarkCollected adds memoryID to the set.
//
// Postcondition: Returns false when the memory was already collected.
func (p *Progress) MarkCollected(ctx context.Context, memoryID string) (bool, error) {
	n, err := p.client.SAdd(ctx, p.key, memoryID).Result()
	if err != nil {
		return false, fmt.Errorf("marking memory %q: %w", memoryID, err)
	}
	return n == 1, nil
}

// CollectedCount returns the set size.
func (p *Progress) CollectedCount(ctx context.Context) (int, error) {
	n, err := p.client.SCard(ctx, p.key).Result()
	if err != nil {
		return 0, fmt.Errorf("counting memories: %w", err)
	}
	return int(n), nil
}

// TotalCount returns the catalog size.
func (p *Progress) TotalCount(context.Context) (int, error) {
	return p.total, nil
}
