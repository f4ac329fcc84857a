package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	pb "github.com/dmitrijs2005/wardminutes/internal/proto"
	"github.com/dmitrijs2005/wardminutes/internal/server/models"
	"github.com/dmitrijs2005/wardminutes/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Authenticate(ctx context.Context, req *pb.AuthenticateRequest) (*pb.AuthenticateResponse, error) {
	tok, err := s.auth.Authenticate(ctx, req.Pin)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.AuthenticateResponse{
		AccessToken: tok.AccessToken,
		Role:        tok.Role,
		ExpiresAt:   common.FormatTimestamp(tok.ExpiresAt),
	}, nil
}

func (s *GRPCServer) GetDocument(ctx context.Context, req *pb.GetDocumentRequest) (*pb.GetDocumentResponse, error) {
	if err := authorize(ctx, req.Collection); err != nil {
		return nil, err
	}
	d, err := s.documents.Get(ctx, req.Collection, req.Id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.GetDocumentResponse{Document: toProto(d)}, nil
}

func (s *GRPCServer) SetDocument(ctx context.Context, req *pb.SetDocumentRequest) (*pb.SetDocumentResponse, error) {
	if req.Document == nil {
		return nil, status.Error(codes.InvalidArgument, "document is required")
	}
	if err := authorize(ctx, req.Document.Collection); err != nil {
		return nil, err
	}
	in, err := fromProto(req.Document)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	d, err := s.documents.Set(ctx, in, req.Merge, req.ExpectedVersion)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "document stored", "collection", d.Collection, "id", d.ID, "version", d.Version)
	return &pb.SetDocumentResponse{Document: toProto(d)}, nil
}

func (s *GRPCServer) ListDocuments(ctx context.Context, req *pb.ListDocumentsRequest) (*pb.ListDocumentsResponse, error) {
	if err := authorize(ctx, req.Collection); err != nil {
		return nil, err
	}
	docs, err := s.documents.List(ctx, req.Collection, models.ListQuery{
		OrderBy:     req.OrderBy,
		Descending:  req.Descending,
		FilterField: req.FilterField,
		FilterValue: req.FilterValue,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := make([]*pb.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, toProto(d))
	}
	return &pb.ListDocumentsResponse{Documents: out}, nil
}

func (s *GRPCServer) DeleteDocument(ctx context.Context, req *pb.DeleteDocumentRequest) (*pb.DeleteDocumentResponse, error) {
	if err := authorize(ctx, req.Collection); err != nil {
		return nil, err
	}
	if err := s.documents.Delete(ctx, req.Collection, req.Id); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "document deleted", "collection", req.Collection, "id", req.Id)
	return &pb.DeleteDocumentResponse{}, nil
}

func (s *GRPCServer) PresignBackup(ctx context.Context, req *pb.PresignBackupRequest) (*pb.PresignBackupResponse, error) {
	key, url, err := s.backups.PresignBackup(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.PresignBackupResponse{Key: key, Url: url}, nil
}

func toProto(d *models.Document) *pb.Document {
	return &pb.Document{
		Collection: d.Collection,
		Id:         d.ID,
		Data:       d.Data,
		CreatedAt:  common.FormatTimestamp(d.CreatedAt),
		UpdatedAt:  common.FormatTimestamp(d.UpdatedAt),
		Version:    d.Version,
	}
}

func fromProto(d *pb.Document) (*models.Document, error) {
	out := &models.Document{
		Collection: d.Collection,
		ID:         d.Id,
		Data:       d.Data,
		Version:    d.Version,
	}
	t, err := common.ParseTimestamp(d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("createdAt: %w", err)
	}
	out.CreatedAt = t
	return out, nil
}

// toStatus maps service errors to gRPC status codes. Unknown errors are
// logged and reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, common.ErrUnknownCollection),
		errors.Is(err, common.ErrUnsupportedField),
		errors.Is(err, services.ErrInvalidDocument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	s.logger.Error(ctx, "internal error", "error", err)
	return status.Error(codes.Internal, "internal error")
}
