// Package grpc serves the identity RPCs and the standard health service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/assettrack/internal/logging"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
	"github.com/dmitrijs2005/assettrack/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// IdentityResolver recovers the acting user from a bearer token.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

type GRPCServer struct {
	address  string
	users    *services.UserService
	resolver IdentityResolver
	logger   logging.Logger
}

var _ IdentityServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us *services.UserService, resolver IdentityResolver) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		resolver: resolver,
	}
}

func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	RegisterIdentityServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(IdentityServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv, hs
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
