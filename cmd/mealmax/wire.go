//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mealmax/internal/config"
)

var providerSet = wire.NewSet(
	provideStore,
	provideRandomSource,
	provideAnnouncers,
	provideEngine,
	provideService,
	provideServer,
	newApp,
)

func initializeApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(providerSet)
	return nil, nil, nil
}
