package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/wekeepgrowing/institute-backend/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server is the payment service's gRPC endpoint. It only carries the
// standard health service, plus reflection outside production.
type Server struct {
	grpcServer *grpc.Server
	logger     *zap.Logger
	addr       string
	reflection bool
	listener   net.Listener
}

// ServerOption configures a Server
type ServerOption func(*Server)

func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		s.addr = addr
	}
}

func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithReflection registers server reflection, for grpcurl in development.
func WithReflection(enabled bool) ServerOption {
	return func(s *Server) {
		s.reflection = enabled
	}
}

func NewServer(health healthpb.HealthServer, opts ...ServerOption) *Server {
	s := &Server{
		logger: zap.NewNop(),
		addr:   ":9090",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.grpcServer = grpc.NewServer(logger.ServerOptions(s.logger)...)
	healthpb.RegisterHealthServer(s.grpcServer, health)
	if s.reflection {
		reflection.Register(s.grpcServer)
	}
	return s
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

// Serve runs the server on an existing listener.
func (s *Server) Serve(lis net.Listener) error {
	s.listener = lis
	s.logger.Info("Starting gRPC server", zap.String("address", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// Shutdown stops gracefully, forcing a stop when ctx expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("Forcing gRPC server stop")
		s.grpcServer.Stop()
		return ctx.Err()
	case <-stopped:
		s.logger.Info("gRPC server stopped")
		return nil
	}
}
