package grpc_control

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

// ServiceName is the health check name of the volatility API.
const ServiceName = "volatility.VolatilityService"

// ControlServer exposes the gRPC health protocol for the HTTP API.
type ControlServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	Health *health.Server

	grpcServer *grpc.Server
}

// -----------------------------------------------------------------------------

func NewControlServer(cfg *models.MConfig, log *logger.Logger) *ControlServer {
	s := &ControlServer{
		Config:     cfg,
		Logger:     log.Named("ControlService"),
		Health:     health.NewServer(),
		grpcServer: grpc.NewServer(),
	}

	healthpb.RegisterHealthServer(s.grpcServer, s.Health)
	reflection.Register(s.grpcServer)

	s.SetServing(false)
	return s
}

// -----------------------------------------------------------------------------

// SetServing flips both the overall and the API service status.
func (s *ControlServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.Health.SetServingStatus("", status)
	s.Health.SetServingStatus(ServiceName, status)
}

// -----------------------------------------------------------------------------

// Listen binds grpc_host:grpc_port.
func (s *ControlServer) Listen() (net.Listener, error) {
	addr := fmt.Sprintf("%s:%d", s.Config.GrpcHost, s.Config.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for gRPC on %s: %w", addr, err)
	}
	return lis, nil
}

// Serve blocks until Stop is called.
func (s *ControlServer) Serve(lis net.Listener) error {
	s.Logger.Info("Starting gRPC Control Server on %s", lis.Addr())
	if err := s.grpcServer.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop reports NOT_SERVING and drains in-flight calls.
func (s *ControlServer) Stop() {
	s.Health.Shutdown()
	s.grpcServer.GracefulStop()
	s.Logger.Info("gRPC Control Server stopped")
}
