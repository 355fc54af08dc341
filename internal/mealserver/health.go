package mealserver

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker mirrors store reachability into a gRPC health server, both
// for ServiceName and for the overall ("") status.
type HealthChecker struct {
	health   *health.Server
	store    Pinger
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHealthChecker creates a HealthChecker.
//
// Precondition: hs, store and logger must be non-nil; interval > 0.
func NewHealthChecker(hs *health.Server, store Pinger, interval time.Duration, logger *zap.Logger) *HealthChecker {
	timeout := 5 * time.Second
	if interval < timeout {
		timeout = interval
	}
	return &HealthChecker{health: hs, store: store, interval: interval, timeout: timeout, logger: logger}
}

// Check pings the store once and records the result.
//
// Postcondition: Returns the resulting serving status.
func (h *HealthChecker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", st)
	h.health.SetServingStatus(ServiceName, st)
	return st
}

// Run checks immediately, then every interval until ctx is done.
func (h *HealthChecker) Run(ctx context.Context) {
	h.Check(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
