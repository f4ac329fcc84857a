// Package grpc exposes the document store over gRPC: the handlers of the
// DocumentStore service, the access-token interceptor and the listener.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/logging"
	pb "github.com/dmitrijs2005/wardminutes/internal/proto"
	"github.com/dmitrijs2005/wardminutes/internal/server/models"
	"github.com/dmitrijs2005/wardminutes/internal/server/services"
	"google.golang.org/grpc"
)

type documentSvc interface {
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	Set(ctx context.Context, doc *models.Document, merge bool, expectedVersion int64) (*models.Document, error)
	List(ctx context.Context, collection string, q models.ListQuery) ([]*models.Document, error)
	Delete(ctx context.Context, collection, id string) error
}

type authSvc interface {
	Authenticate(ctx context.Context, pin string) (*services.Token, error)
}

type backupSvc interface {
	PresignBackup(ctx context.Context) (string, string, error)
}

type GRPCServer struct {
	pb.UnimplementedDocumentStoreServer
	address   string
	documents documentSvc
	auth      authSvc
	backups   backupSvc
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, ds documentSvc, as authSvc, bs backupSvc, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		documents: ds,
		auth:      as,
		backups:   bs,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds the grpc.Server with the service and interceptors
// registered, without listening.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterDocumentStoreServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.WithoutCancel(ctx), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	return srv.Serve(listen)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		s.logger.Warn(ctx, "request failed", "method", info.FullMethod, "duration", time.Since(start), "error", err)
	} else {
		s.logger.Debug(ctx, "request", "method", info.FullMethod, "duration", time.Since(start))
	}
	return resp, err
}
