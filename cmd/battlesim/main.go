// Package main provides an interactive terminal battle simulator: it loads
// content, connects the configured storage and plays battles on stdin/stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/solace/internal/config"
	"github.com/cory-johannsen/solace/internal/content"
	"github.com/cory-johannsen/solace/internal/frontend/terminal"
	"github.com/cory-johannsen/solace/internal/game/combat"
	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/dice"
	"github.com/cory-johannsen/solace/internal/game/reward"
	"github.com/cory-johannsen/solace/internal/game/session"
	"github.com/cory-johannsen/solace/internal/observability"
	"github.com/cory-johannsen/solace/internal/scripting"
)

type options struct {
	playerID   string
	opponentID string
	noColor    bool
	seed       uint64
}

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and SOLACE_* environment variables")
	playerID := flag.String("player", "local", "player id to load or create")
	opponentID := flag.String("opponent", "", "opponent template id; empty picks one at random for each battle")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	seed := flag.Uint64("seed", 0, "seed for reproducible dice; 0 uses crypto/rand")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{playerID: *playerID, opponentID: *opponentID, noColor: *noColor, seed: *seed}
	if err := run(ctx, cfg, opts, logger); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
			logger.Info("battle simulator stopped", zap.Error(err))
			return
		}
		logger.Error("battle simulator failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, logger *zap.Logger) error {
	start := time.Now()

	catalog, err := content.Load(cfg.Content.Dir, logger)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	src := dice.NewCryptoSource()
	if opts.seed != 0 {
		src = dice.NewSeededSource(opts.seed)
		logger.Info("using seeded dice", zap.Uint64("seed", opts.seed))
	}
	roller := dice.NewLoggedRoller(src, logger)

	var narrator combat.Narrator
	if cfg.Content.ScriptsDir != "" {
		mgr := scripting.NewManager(roller, logger)
		if err := mgr.Load(cfg.Content.ScriptsDir, cfg.Content.LuaInstructionLimit); err != nil {
			return fmt.Errorf("loading scripts: %w", err)
		}
		defer mgr.Close()
		narrator = mgr
	}

	st, err := openStore(ctx, cfg, opts.playerID, catalog, logger)
	if err != nil {
		return err
	}
	defer st.close()

	player, created, err := st.loadPlayer(ctx, opts.playerID, catalog)
	if err != nil {
		return err
	}
	logger.Info("battle simulator ready",
		zap.String("player", player.ID),
		zap.Bool("created", created),
		zap.String("storage", cfg.Storage.Backend),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Duration("elapsed", time.Since(start)),
	)

	resolver := combat.NewResolver(cfg.Battle.Rules(), catalog.Statuses(), roller, logger)
	engine := combat.NewEngine(resolver, catalog.Items(), narrator, logger)
	term := terminal.NewPresenter(
		os.Stdin, os.Stdout,
		terminal.NewRenderer(terminal.Style{Disabled: opts.noColor}, catalog.Memory),
		roller, terminal.DefaultTimingWindows(),
	)
	runner := session.NewRunner(engine, term, term, session.Options{
		TimingTimeout: cfg.Battle.TimingTimeout,
		PacingDelay:   cfg.Battle.PacingDelay,
	}, logger)
	collab := combat.Collaborators{
		Inventory: st.inventory,
		Rewards:   reward.NewSelector(st.progress, catalog.MemoryIDs(), roller, logger),
	}

	for {
		tmpl := catalog.Opponent(chooseOpponent(opts.opponentID, catalog, roller))
		opp := combatant.NewOpponent(uuid.NewString(), tmpl)
		if err := term.Banner(fmt.Sprintf("%s (Lv %d) meets %s", player.Name, player.Level, opp.Name)); err != nil {
			return err
		}

		exit, runErr := runner.Run(ctx, combat.Entry{Player: player, Opponent: opp, ReturnContext: "battlesim"}, collab)
		if exit.Player != nil {
			player = exit.Player
			// Progress is kept even when the battle was interrupted.
			if err := st.players.Save(context.WithoutCancel(ctx), player); err != nil {
				return fmt.Errorf("saving player %q: %w", player.ID, err)
			}
		}
		if runErr != nil {
			return runErr
		}
		logger.Info("battle finished",
			zap.String("opponent", tmpl.ID),
			zap.Stringer("outcome", exit.Outcome),
			zap.Int("level", player.Level),
			zap.Int("xp", player.XP),
		)

		again, err := term.Confirm(ctx, "Another battle?")
		if err != nil || !again {
			return err
		}
	}
}

func chooseOpponent(id string, catalog *content.Catalog, roller *dice.Roller) string {
	if id != "" {
		return id
	}
	ids := catalog.OpponentIDs()
	return ids[roller.Pick("opponent", len(ids))]
}
