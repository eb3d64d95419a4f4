package delivery_grpc

import (
	"fmt"
	"log/slog"
	"net"

	ports "simple-social-service/internal/domain/ports/output"
	"simple-social-service/internal/infrastructure/inbound/grpc/middleware"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server exposes grpc.health.v1 so orchestrators can probe the service over gRPC.
type Server struct {
	health  *health.Server
	server  *grpc.Server
	address string
	port    int
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewServer(address string, port int, log ports.Logger, metrics ports.MetricsProvider) *Server {
	s := &Server{
		health:  health.NewServer(),
		address: address,
		port:    port,
		log:     log,
		metrics: metrics,
	}
	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			middleware.UnaryLoggerInterceptor(s.log, s.metrics),
			grpc_recovery.UnaryServerInterceptor(),
		)),
	)
	healthpb.RegisterHealthServer(s.server, s.health)
	return s
}

// SetServing flips the overall serving status reported to probes.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
}

func (s *Server) Run() error {
	address := fmt.Sprintf("%s:%d", s.address, s.port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen: %v", err)
	}

	s.log.Info("Starting gRPC server", slog.Int("port", s.port))
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *Server) Shutdown() error {
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}
