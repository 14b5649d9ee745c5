// Package health exposes the grpc.health.v1 protocol for the API process so
// orchestrators can probe it without going through the HTTP rate limiter.
package health

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/interceptors"
)

const defaultInterval = 10 * time.Second

// Probe reports whether a dependency is usable.
type Probe func(ctx context.Context) error

type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
	interval   time.Duration

	mu     sync.Mutex
	probes map[string]Probe
}

// NewServer registers the health service. The overall status ("") is
// SERVING only while every probe passes.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor(logger)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	return &Server{
		grpcServer: grpcServer,
		health:     hs,
		logger:     logger,
		interval:   defaultInterval,
		probes:     make(map[string]Probe),
	}
}

// AddProbe registers a named dependency check. It is reported as its own
// health service and folded into the overall status.
func (s *Server) AddProbe(name string, p Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes[name] = p
}

// Refresh runs every probe once and publishes the results.
func (s *Server) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overall := healthpb.HealthCheckResponse_SERVING
	for name, probe := range s.probes {
		status := healthpb.HealthCheckResponse_SERVING
		if err := probe(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
			s.logger.WarnContext(ctx, "health probe failed", "probe", name, "error", err)
		}
		s.health.SetServingStatus(name, status)
	}
	s.health.SetServingStatus("", overall)
}

// Serve blocks until ctx is cancelled, refreshing probes periodically, then
// stops the gRPC server gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.Refresh(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.Refresh(ctx)
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		}
	}
}
