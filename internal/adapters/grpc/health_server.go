package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside the overall ("") status
const ServiceName = "player.PlayerService"

// ProbeInterval is how often the dependency check is re-run
const ProbeInterval = 15 * time.Second

// HealthServer serves the standard gRPC health protocol. Its status follows a
// dependency check (the database ping) re-run every probe interval.
type HealthServer struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	check      func(ctx context.Context) error
	interval   time.Duration
	logger     *slog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHealthServer listens on address (host:port) without serving yet
func NewHealthServer(address string, check func(ctx context.Context) error, interval time.Duration, logger *slog.Logger) (*HealthServer, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for health checks on %s: %w", address, err)
	}
	if interval <= 0 {
		interval = ProbeInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &HealthServer{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		check:      check,
		interval:   interval,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}, nil
}

// Addr is the bound listener address
func (s *HealthServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Start probes once, then serves until Stop is called
func (s *HealthServer) Start() error {
	s.Refresh(context.Background())
	go s.probeLoop()

	if err := s.grpcServer.Serve(s.listener); err != nil {
		return fmt.Errorf("gRPC health server error: %w", err)
	}
	return nil
}

// Stop reports NOT_SERVING to watchers and drains in-flight calls
func (s *HealthServer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	})
}

// Refresh runs the dependency check and publishes the resulting status
func (s *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if s.check != nil {
		checkCtx, cancel := context.WithTimeout(ctx, s.interval)
		defer cancel()
		if err := s.check(checkCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			s.logger.Warn("health check failed", slog.String("error", err.Error()))
		}
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

func (s *HealthServer) probeLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Refresh(context.Background())
		}
	}
}
