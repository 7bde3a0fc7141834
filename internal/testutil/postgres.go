package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/solace/internal/config"
	"github.com/cory-johannsen/solace/internal/storage/postgres"
)

// NewDatabaseConfig starts a PostgreSQL test container with the schema
// migrations applied and returns settings pointing at it.
func NewDatabaseConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ep := startContainer(t, "postgres", testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		// The server logs readiness twice: once for the init run, once for real.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}, "5432")

	cfg := config.DatabaseConfig{
		Host:            ep.host,
		Port:            ep.port,
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
	if err := postgres.MigrateUp(cfg.DSN()); err != nil {
		t.Fatalf("migrating test postgres: %v", err)
	}
	return cfg
}

// NewPool starts a migrated PostgreSQL container and returns a connected
// pool that is closed on cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, err := postgres.Connect(context.Background(), NewDatabaseConfig(t))
	if err != nil {
		t.Fatalf("connecting to test postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
