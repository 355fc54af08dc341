// Package main settles a single battle between two stored meals and prints
// the outcome.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/battle"
	"github.com/cory-johannsen/mealmax/internal/config"
	"github.com/cory-johannsen/mealmax/internal/observability"
	"github.com/cory-johannsen/mealmax/internal/random"
	"github.com/cory-johannsen/mealmax/internal/scripting"
	"github.com/cory-johannsen/mealmax/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	first := flag.String("a", "", "name of the first combatant")
	second := flag.String("b", "", "name of the second combatant")
	flag.Parse()

	if *first == "" || *second == "" {
		fmt.Fprintln(os.Stderr, "usage: battle -a <meal> -b <meal> [-config path]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger, *first, *second); err != nil {
		logger.Error("battle failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("battle complete", zap.Duration("elapsed", time.Since(start)))
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, first, second string) error {
	store, cleanup, err := storage.Open(ctx, cfg.Database, observability.Component(logger, "storage"))
	if err != nil {
		return err
	}
	defer cleanup()

	src, err := random.New(cfg.Random)
	if err != nil {
		return err
	}

	var announcers []battle.Announcer
	if cfg.Scripting.Dir != "" {
		mgr := scripting.NewManager(observability.Component(logger, "scripting"))
		defer mgr.Close()
		if err := mgr.Load(ctx, cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
			return fmt.Errorf("loading battle scripts: %w", err)
		}
		announcers = append(announcers, scripting.NewAnnouncer(mgr))
	}

	engine := battle.NewEngine(store,
		random.NewLogged(src, observability.Component(logger, "random")),
		observability.Component(logger, "battle"),
		announcers...,
	)
	for _, name := range []string{first, second} {
		m, err := store.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if err := engine.Prepare(m); err != nil {
			return err
		}
	}

	res, err := engine.Resolve(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s defeats %s (%.2f vs %.2f, delta=%.3f draw=%.2f) battle=%s\n",
		res.Winner.Name, res.Loser.Name, res.WinnerScore, res.LoserScore, res.Delta, res.Draw, res.ID)
	for _, msg := range res.Announcements {
		fmt.Fprintln(os.Stdout, msg)
	}
	return nil
}
