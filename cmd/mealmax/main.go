// Package main runs the MealMax gRPC service.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/config"
	"github.com/cory-johannsen/mealmax/internal/observability"
	"github.com/cory-johannsen/mealmax/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting mealmax",
		zap.String("grpc_addr", cfg.GRPC.Addr()),
		zap.String("database_driver", cfg.Database.Driver),
	)

	app, cleanup, err := initializeApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing application", zap.Error(err))
	}

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("resources", server.Resource(cleanup))
	lifecycle.Add("grpc", app.Server)

	logger.Info("mealmax ready", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("mealmax exited with error", zap.Error(err))
		logger.Sync()
		log.Fatalf("mealmax: %v", err)
	}
}
