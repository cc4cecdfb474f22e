// Package grpc exposes the vault over gRPC with a JSON codec. Every call
// except Register and Login must carry an access_token metadata entry, which
// the interceptor chain resolves to the caller id.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/dmitrijs2005/credvault/internal/server/services"
	"google.golang.org/grpc"
)

// Services bundles the use cases the server dispatches to.
type Services struct {
	Users       *services.UserService
	Credentials *services.CredentialService
	Secrets     *services.SecretService
	Snapshots   *services.SnapshotService
}

type GRPCServer struct {
	address     string
	users       *services.UserService
	credentials *services.CredentialService
	secrets     *services.SecretService
	snapshots   *services.SnapshotService
	logger      logging.Logger
	jwtSecret   []byte
	limiter     *multiLimiter
}

var _ VaultServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(cfg *config.Config, l logging.Logger, svc Services) *GRPCServer {
	return &GRPCServer{
		address:     cfg.EndpointAddrGRPC,
		logger:      l.With("module", "grpc_server"),
		users:       svc.Users,
		credentials: svc.Credentials,
		secrets:     svc.Secrets,
		snapshots:   svc.Snapshots,
		jwtSecret:   []byte(cfg.SecretKey),
		limiter:     newMultiLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, idleLimiterTTL),
	}
}

// NewServer builds a grpc.Server with the interceptor chain and the vault
// service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.accessTokenInterceptor,
		s.rateLimitInterceptor,
	))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&VaultServiceDesc, s)
	return srv
}

// Run serves on the configured address until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
