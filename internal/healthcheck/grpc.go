// Package healthcheck exposes the gRPC health protocol so orchestrators can
// probe the gateway without touching the webhook.
package healthcheck

import (
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported for the webhook.
const ServiceName = "resumeflow.IngestGateway"

// Server wraps a gRPC server that only serves grpc.health.v1.Health.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	log        *logrus.Logger
}

func New(log *logrus.Logger) *Server {
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Server{grpcServer: gs, health: hs, log: log}
}

// SetServing flips both the overall and the named service status.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve blocks serving on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Infof("gRPC health service listening on %s", lis.Addr())
	return s.grpcServer.Serve(lis)
}

// Stop marks the service NOT_SERVING and stops the server gracefully.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
