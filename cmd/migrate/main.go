// Package main applies, rolls back or inspects the embedded database schema.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/config"
	"github.com/cory-johannsen/solace/internal/observability"
	"github.com/cory-johannsen/solace/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	action := flag.String("direction", "up", "up, down, version or force")
	steps := flag.Int("steps", 0, "number of steps for up/down (0 = all)")
	forceVersion := flag.Int("force-version", -1, "schema version recorded by force, clearing the dirty flag")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	m, err := postgres.NewMigrator(cfg.Database.DSN())
	if err != nil {
		logger.Fatal("creating migrator", zap.Error(err))
	}
	defer m.Close()

	if err := apply(m, *action, *steps, *forceVersion); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal("migration failed", zap.String("direction", *action), zap.Error(err))
		}
		version, dirty, _ := m.Version()
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", version, dirty, time.Since(start))
		return
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Fatal("reading schema version", zap.Error(err))
	}
	fmt.Fprintf(os.Stdout, "%s: version=%d dirty=%v [%s]\n", *action, version, dirty, time.Since(start))
}

func apply(m *migrate.Migrate, action string, steps, forceVersion int) error {
	switch action {
	case "up":
		if steps > 0 {
			return m.Steps(steps)
		}
		return m.Up()
	case "down":
		if steps > 0 {
			return m.Steps(-steps)
		}
		return m.Down()
	case "version":
		return nil
	case "force":
		if forceVersion < 0 {
			return errors.New("force requires -force-version")
		}
		return m.Force(forceVersion)
	default:
		return fmt.Errorf("invalid direction %q: must be up, down, version or force", action)
	}
}
