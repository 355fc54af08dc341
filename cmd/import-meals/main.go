// Package main imports meal seed YAML into the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/config"
	"github.com/cory-johannsen/mealmax/internal/importer"
	"github.com/cory-johannsen/mealmax/internal/observability"
	"github.com/cory-johannsen/mealmax/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	source := flag.String("source", "content/meals.yaml", "seed file or directory of seed files")
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

	ctx := context.Background()
	store, cleanup, err := storage.Open(ctx, cfg.Database, observability.Component(logger, "storage"))
	if err != nil {
		logger.Fatal("opening store", zap.Error(err))
	}

	imp := importer.New(importer.NewYAMLSource(), store, observability.Component(logger, "importer"))
	report, err := imp.Run(ctx, *source)
	cleanup()
	if err != nil {
		logger.Error("import failed", zap.String("source", *source), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "imported %d meals, skipped %d [%s]\n", report.Created, report.Skipped, time.Since(start))
}
