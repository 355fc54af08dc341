package mealserver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/mealmax/internal/config"
)

// Server hosts the MealMax and health services on one gRPC listener.
type Server struct {
	grpc    *grpc.Server
	health  *health.Server
	checker *HealthChecker
	addr    string
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a Server with svc and the standard health service registered.
//
// Precondition: svc, store and logger must be non-nil.
// Postcondition: Returns a Server that is not yet listening.
func NewServer(cfg config.GRPCConfig, svc MealMaxServer, store Pinger, logger *zap.Logger) *Server {
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	RegisterMealMaxServer(gs, svc)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	interval := cfg.HealthInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:     ctx,
		cancel:  cancel,
		grpc:    gs,
		health:  hs,
		checker: NewHealthChecker(hs, store, interval, logger),
		addr:    cfg.Addr(),
		logger:  logger,
	}
}

// Serve runs health checks and serves RPCs on lis until Stop.
//
// Postcondition: Returns nil after Stop, or the serve error.
func (s *Server) Serve(lis net.Listener) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.checker.Run(s.ctx)
	}()

	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// Start listens on the configured address and serves. It blocks until Stop.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

// Stop marks the server not serving and drains in-flight RPCs.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.cancel()
	s.grpc.GracefulStop()
	s.wg.Wait()
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("rpc",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}
