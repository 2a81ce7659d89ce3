// Package main provides the battle simulator binary: it assembles one
// encounter from content and configuration and drives it to an outcome,
// either on autopilot or from commands read on stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deckbattle/internal/config"
	"github.com/cory-johannsen/deckbattle/internal/dispatch"
	"github.com/cory-johannsen/deckbattle/internal/game/battle"
	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/dice"
	"github.com/cory-johannsen/deckbattle/internal/game/npc"
	"github.com/cory-johannsen/deckbattle/internal/game/party"
	"github.com/cory-johannsen/deckbattle/internal/observability"
	"github.com/cory-johannsen/deckbattle/internal/scripting"
	"github.com/cory-johannsen/deckbattle/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	interactive := flag.Bool("interactive", false, "read commands from stdin instead of playing on autopilot")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	var src dice.Source
	if cfg.Battle.Seed != 0 {
		src = dice.NewSeededSource(cfg.Battle.Seed)
		logger.Info("using seeded dice", zap.Uint64("seed", cfg.Battle.Seed))
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	cards, err := card.LoadDirectory(cfg.Content.CardsDir)
	if err != nil {
		logger.Fatal("loading cards", zap.Error(err))
	}
	enemies, err := loadEncounter(cfg.Content)
	if err != nil {
		logger.Fatal("loading encounter", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("cards", cards.Len()),
		zap.Int("enemies", len(enemies)),
		zap.Duration("elapsed", time.Since(start)),
	)

	setup := battle.Setup{
		ScenarioID: cfg.Content.ScenarioID,
		PlayerName: cfg.Player.Name,
		Enemies:    enemies,
		Cards:      cards,
		Rules:      cfg.Battle.Rules(),
		Src:        roller,
		Logger:     logger,
	}
	opts := dispatch.Options{Timeout: cfg.Sync.Timeout}

	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		store := pool.ForProfile(cfg.Player.ProfileID)
		setup.Stats = store.Profile
		setup.Equipped = store.Profile
		setup.Party = store.Party
		opts.Profile = store.Profile
		opts.Inventory = store.Inventory
		opts.Reporter = store.Reports
	} else {
		setup.Stats = battle.StaticStats(cfg.Player.Stats.Stats())
		setup.Equipped = battle.StaticEquipped(cfg.Player.Equipped)
		roster := party.StaticProvider(nil)
		if cfg.Content.PartyFile != "" {
			roster, err = party.LoadFile(cfg.Content.PartyFile)
			if err != nil {
				logger.Fatal("loading party", zap.Error(err))
			}
		}
		setup.Party = roster
	}

	if cfg.Scripting.ImpactScript != "" {
		script, err := scripting.LoadImpactScript(cfg.Scripting.ImpactScript, cfg.Scripting.InstructionLimit, logger)
		if err != nil {
			logger.Fatal("loading impact script", zap.Error(err))
		}
		defer script.Close()
		opts.Impacts = script
	}

	dispatcher := dispatch.New(opts, logger)
	setup.Sink = dispatcher

	ctrl, err := battle.Start(ctx, setup)
	if err != nil {
		logger.Fatal("starting battle", zap.Error(err))
	}
	blog := observability.BattleLogger(logger, ctrl.Snapshot().ID)
	blog.Info("battle started",
		zap.String("scenario_id", cfg.Content.ScenarioID),
		zap.Strings("encounter", cfg.Content.Encounter),
		zap.Duration("elapsed", time.Since(start)),
	)

	out := newNarrator(os.Stdout)
	out.lines(ctrl.Snapshot().Log)

	var final *battle.Session
	if *interactive {
		final, err = repl(ctx, ctrl, os.Stdin, out)
	} else {
		final, err = autopilot(ctx, ctrl, battle.Delay(cfg.Battle.PhaseDelay), out)
	}
	if err != nil {
		blog.Error("battle aborted", zap.Error(err))
	}

	dispatcher.Wait()
	if final != nil {
		out.summary(final)
		blog.Info("battle finished",
			zap.String("outcome", string(final.Outcome)),
			zap.Int("turns", final.Turn),
			zap.Strings("defeated", final.Defeated),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// loadEncounter resolves the configured encounter ids against the enemy
// templates directory.
func loadEncounter(c config.ContentConfig) ([]*npc.Template, error) {
	templates, err := npc.LoadTemplates(c.EnemiesDir)
	if err != nil {
		return nil, err
	}
	byID, err := npc.Index(templates)
	if err != nil {
		return nil, err
	}
	out := make([]*npc.Template, 0, len(c.Encounter))
	for _, id := range c.Encounter {
		tmpl, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("encounter references unknown enemy %q", id)
		}
		out = append(out, tmpl)
	}
	return out, nil
}
