package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	pb "github.com/dmitrijs2005/wardminutes/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.DocumentStoreClient

	mu          sync.RWMutex
	accessToken string
	pin         string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) credentials() (token, pin string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.pin
}

func (s *GRPCClient) setCredentials(token, pin string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
	s.pin = pin
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	token, pin := s.credentials()
	err := invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if pin == "" || method == pb.DocumentStore_Authenticate_FullMethodName {
		return err
	}

	resp, aerr := s.client.Authenticate(ctx, &pb.AuthenticateRequest{Pin: pin})
	if aerr != nil {
		return aerr
	}
	s.setCredentials(resp.AccessToken, pin)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewDocumentStoreClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewDocumentStoreClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Authenticate(ctx context.Context, pin string) (string, error) {
	resp, err := s.client.Authenticate(ctx, &pb.AuthenticateRequest{Pin: pin})
	if err != nil {
		return "", s.mapError(err)
	}
	s.setCredentials(resp.AccessToken, pin)
	return resp.Role, nil
}

func (s *GRPCClient) GetDocument(ctx context.Context, collection, id string) (*models.Document, error) {
	resp, err := s.client.GetDocument(ctx, &pb.GetDocumentRequest{Collection: collection, Id: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.GetDocument() == nil {
		return nil, common.ErrorNotFound
	}
	return fromPB(resp.Document)
}

func (s *GRPCClient) SetDocument(ctx context.Context, doc *models.Document, merge bool, expectedVersion int64) (*models.Document, error) {
	req := &pb.SetDocumentRequest{Document: toPB(doc), Merge: merge, ExpectedVersion: expectedVersion}
	resp, err := s.client.SetDocument(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.GetDocument() == nil {
		return nil, fmt.Errorf("rpc error: empty SetDocument response")
	}
	return fromPB(resp.Document)
}

func (s *GRPCClient) ListDocuments(ctx context.Context, collection string, q models.Query) ([]models.Document, error) {
	req := &pb.ListDocumentsRequest{
		Collection:  collection,
		OrderBy:     q.OrderBy,
		Descending:  q.Descending,
		FilterField: q.FilterField,
		FilterValue: q.FilterValue,
	}
	resp, err := s.client.ListDocuments(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	docs := make([]models.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		doc, err := fromPB(d)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (s *GRPCClient) DeleteDocument(ctx context.Context, collection, id string) error {
	_, err := s.client.DeleteDocument(ctx, &pb.DeleteDocumentRequest{Collection: collection, Id: id})
	return s.mapError(err)
}

func (s *GRPCClient) PresignBackup(ctx context.Context) (string, string, error) {
	resp, err := s.client.PresignBackup(ctx, &pb.PresignBackupRequest{})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.Key, resp.Url, nil
}

func toPB(d *models.Document) *pb.Document {
	return &pb.Document{
		Collection: d.Collection,
		Id:         d.ID,
		Data:       d.Data,
		CreatedAt:  common.FormatTimestamp(d.CreatedAt),
		UpdatedAt:  common.FormatTimestamp(d.UpdatedAt),
		Version:    d.Version,
	}
}

// fromPB normalizes the store's timestamps on the way in.
func fromPB(d *pb.Document) (*models.Document, error) {
	created, err := common.ParseTimestamp(d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("bad createdAt on %s/%s: %w", d.Collection, d.Id, err)
	}
	updated, err := common.ParseTimestamp(d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("bad updatedAt on %s/%s: %w", d.Collection, d.Id, err)
	}
	return &models.Document{
		Collection: d.Collection,
		ID:         d.Id,
		Data:       d.Data,
		CreatedAt:  created,
		UpdatedAt:  updated,
		Version:    d.Version,
	}, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.Aborted:
		return common.ErrVersionConflict
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

var _ Client = (*GRPCClient)(nil)
