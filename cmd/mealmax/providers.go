package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/battle"
	"github.com/cory-johannsen/mealmax/internal/config"
	"github.com/cory-johannsen/mealmax/internal/mealserver"
	"github.com/cory-johannsen/mealmax/internal/narrator"
	"github.com/cory-johannsen/mealmax/internal/observability"
	"github.com/cory-johannsen/mealmax/internal/random"
	"github.com/cory-johannsen/mealmax/internal/scripting"
	"github.com/cory-johannsen/mealmax/internal/storage"
)

// App is the assembled service graph.
type App struct {
	Server *mealserver.Server
	Store  storage.Store
}

func newApp(srv *mealserver.Server, store storage.Store) *App {
	return &App{Server: srv, Store: store}
}

func provideStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	return storage.Open(ctx, cfg.Database, observability.Component(logger, "storage"))
}

func provideRandomSource(cfg config.Config, logger *zap.Logger) (battle.Source, error) {
	src, err := random.New(cfg.Random)
	if err != nil {
		return nil, err
	}
	logger.Info("random source selected", zap.String("source", cfg.Random.Source))
	return random.NewLogged(src, observability.Component(logger, "random")), nil
}

// provideAnnouncers builds the optional Lua and LLM announcers, in that order.
func provideAnnouncers(ctx context.Context, cfg config.Config, logger *zap.Logger) ([]battle.Announcer, func(), error) {
	var announcers []battle.Announcer
	cleanup := func() {}

	if cfg.Scripting.Dir != "" {
		mgr := scripting.NewManager(observability.Component(logger, "scripting"))
		if err := mgr.Load(ctx, cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
			return nil, nil, fmt.Errorf("loading battle scripts: %w", err)
		}
		announcers = append(announcers, scripting.NewAnnouncer(mgr))
		cleanup = mgr.Close
	}

	if cfg.Narrator.Enabled {
		announcers = append(announcers, narrator.New(cfg.Narrator, observability.Component(logger, "narrator")))
		logger.Info("battle narrator enabled", zap.String("model", cfg.Narrator.Model))
	}
	return announcers, cleanup, nil
}

func provideEngine(store storage.Store, src battle.Source, logger *zap.Logger, announcers []battle.Announcer) *battle.Engine {
	return battle.NewEngine(store, src, observability.Component(logger, "battle"), announcers...)
}

func provideService(store storage.Store, engine *battle.Engine, logger *zap.Logger) *mealserver.Service {
	return mealserver.NewService(store, engine, observability.Component(logger, "mealserver"))
}

func provideServer(cfg config.Config, svc *mealserver.Service, store storage.Store, logger *zap.Logger) *mealserver.Server {
	return mealserver.NewServer(cfg.GRPC, svc, store, observability.Component(logger, "grpc"))
}
