package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	pb "github.com/dmitrijs2005/wardminutes/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type fakePB struct {
	lastAuthReq   *pb.AuthenticateRequest
	lastGetReq    *pb.GetDocumentRequest
	lastSetReq    *pb.SetDocumentRequest
	lastListReq   *pb.ListDocumentsRequest
	lastDeleteReq *pb.DeleteDocumentRequest

	pingResp *pb.PingResponse
	pingErr  error

	authResp *pb.AuthenticateResponse
	authErr  error

	getResp *pb.GetDocumentResponse
	getErr  error

	setResp *pb.SetDocumentResponse
	setErr  error

	listResp *pb.ListDocumentsResponse
	listErr  error

	deleteErr error

	presignResp *pb.PresignBackupResponse
	presignErr  error
}

func (f *fakePB) Ping(ctx context.Context, in *pb.PingRequest, opts ...grpc.CallOption) (*pb.PingResponse, error) {
	return f.pingResp, f.pingErr
}
func (f *fakePB) Authenticate(ctx context.Context, in *pb.AuthenticateRequest, opts ...grpc.CallOption) (*pb.AuthenticateResponse, error) {
	f.lastAuthReq = in
	return f.authResp, f.authErr
}
func (f *fakePB) GetDocument(ctx context.Context, in *pb.GetDocumentRequest, opts ...grpc.CallOption) (*pb.GetDocumentResponse, error) {
	f.lastGetReq = in
	return f.getResp, f.getErr
}
func (f *fakePB) SetDocument(ctx context.Context, in *pb.SetDocumentRequest, opts ...grpc.CallOption) (*pb.SetDocumentResponse, error) {
	f.lastSetReq = in
	return f.setResp, f.setErr
}
func (f *fakePB) ListDocuments(ctx context.Context, in *pb.ListDocumentsRequest, opts ...grpc.CallOption) (*pb.ListDocumentsResponse, error) {
	f.lastListReq = in
	return f.listResp, f.listErr
}
func (f *fakePB) DeleteDocument(ctx context.Context, in *pb.DeleteDocumentRequest, opts ...grpc.CallOption) (*pb.DeleteDocumentResponse, error) {
	f.lastDeleteReq = in
	return &pb.DeleteDocumentResponse{}, f.deleteErr
}
func (f *fakePB) PresignBackup(ctx context.Context, in *pb.PresignBackupRequest, opts ...grpc.CallOption) (*pb.PresignBackupResponse, error) {
	return f.presignResp, f.presignErr
}

func TestInterceptor_AttachesToken(t *testing.T) {
	c := &GRPCClient{accessToken: "A1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Equal(t, []string{"A1"}, md.Get(common.AccessTokenHeaderName))
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
}

func TestInterceptor_ReauthenticatesOnExpiredAndRetries(t *testing.T) {
	f := &fakePB{authResp: &pb.AuthenticateResponse{AccessToken: "A2", Role: "clerk"}}
	c := &GRPCClient{client: f, accessToken: "A1", pin: "1234"}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Len(t, toks, 1)

		if callCount == 1 {
			require.Equal(t, "A1", toks[0])
			return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		require.Equal(t, "A2", toks[0])
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), pb.DocumentStore_GetDocument_FullMethodName, nil, nil, nil, invoker)
	require.NoError(t, err)
	require.Equal(t, 2, callCount)
	require.Equal(t, "A2", c.accessToken)
	require.Equal(t, "1234", f.lastAuthReq.Pin)
}

func TestInterceptor_NoRetryWithoutPIN(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f, accessToken: "A1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
	require.Nil(t, f.lastAuthReq)
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	c := &GRPCClient{accessToken: "X", pin: "1234"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Internal, "boom")
	}
	require.Error(t, c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
}

func TestInterceptor_UnauthenticatedButDifferentMessage_NoRetry(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f, accessToken: "X", pin: "1234"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "some other reason")
	}
	require.Error(t, c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
	require.Nil(t, f.lastAuthReq)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.Nil(t, c.mapError(nil))
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.Unauthenticated, "x")))
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.PermissionDenied, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))
	require.Equal(t, common.ErrorNotFound, c.mapError(status.Error(codes.NotFound, "x")))
	require.Equal(t, common.ErrVersionConflict, c.mapError(status.Error(codes.Aborted, "x")))
	require.ErrorContains(t, c.mapError(errors.New("plain")), "rpc error:")
	require.ErrorContains(t, c.mapError(status.Error(codes.InvalidArgument, "bad field")), "bad field")
}

func TestPing(t *testing.T) {
	c := &GRPCClient{client: &fakePB{pingResp: &pb.PingResponse{Status: "OK"}}}
	require.NoError(t, c.Ping(context.Background()))

	c = &GRPCClient{client: &fakePB{pingResp: &pb.PingResponse{Status: "NOT_OK"}}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	c = &GRPCClient{client: &fakePB{pingErr: status.Error(codes.Unavailable, "down")}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestAuthenticate_StoresTokenAndPIN(t *testing.T) {
	f := &fakePB{authResp: &pb.AuthenticateResponse{AccessToken: "T", Role: "bishopric"}}
	c := &GRPCClient{client: f}

	role, err := c.Authenticate(context.Background(), "4321")
	require.NoError(t, err)
	assert.Equal(t, "bishopric", role)
	assert.Equal(t, "T", c.accessToken)
	assert.Equal(t, "4321", c.pin)

	f.authErr = status.Error(codes.Unauthenticated, "invalid pin")
	_, err = c.Authenticate(context.Background(), "0000")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "4321", c.pin)
}

func TestGetDocument(t *testing.T) {
	f := &fakePB{getResp: &pb.GetDocumentResponse{Document: &pb.Document{
		Collection: "sacramental", Id: "ata-1", Data: json.RawMessage(`{"a":1}`),
		CreatedAt: "2025-06-01T10:00:00.123456Z", UpdatedAt: "2025-06-01T11:00:00Z", Version: 4,
	}}}
	c := &GRPCClient{client: f}

	doc, err := c.GetDocument(context.Background(), "sacramental", "ata-1")
	require.NoError(t, err)
	assert.Equal(t, "ata-1", f.lastGetReq.Id)
	assert.Equal(t, int64(4), doc.Version)
	assert.True(t, doc.CreatedAt.Equal(time.Date(2025, 6, 1, 10, 0, 0, 123000000, time.UTC)))
	assert.JSONEq(t, `{"a":1}`, string(doc.Data))

	f.getResp = &pb.GetDocumentResponse{}
	_, err = c.GetDocument(context.Background(), "sacramental", "ata-1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	f.getErr = status.Error(codes.NotFound, "missing")
	_, err = c.GetDocument(context.Background(), "sacramental", "ata-1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	f.getErr = nil
	f.getResp = &pb.GetDocumentResponse{Document: &pb.Document{Id: "x", CreatedAt: "garbage"}}
	_, err = c.GetDocument(context.Background(), "sacramental", "x")
	require.Error(t, err)
}

func TestSetDocument(t *testing.T) {
	f := &fakePB{setResp: &pb.SetDocumentResponse{Document: &pb.Document{Collection: "bishopric", Id: "bishopric-1", Version: 2}}}
	c := &GRPCClient{client: f}

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	out, err := c.SetDocument(context.Background(), &models.Document{
		Collection: "bishopric", ID: "bishopric-1", Data: []byte(`{}`), CreatedAt: created,
	}, true, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Version)
	assert.True(t, f.lastSetReq.Merge)
	assert.Equal(t, int64(1), f.lastSetReq.ExpectedVersion)
	assert.Equal(t, "2025-06-01T10:00:00.000Z", f.lastSetReq.Document.CreatedAt)
	assert.Empty(t, f.lastSetReq.Document.UpdatedAt)

	f.setErr = status.Error(codes.Aborted, "version conflict")
	_, err = c.SetDocument(context.Background(), &models.Document{Collection: "bishopric"}, false, 0)
	require.ErrorIs(t, err, common.ErrVersionConflict)

	f.setErr = nil
	f.setResp = &pb.SetDocumentResponse{}
	_, err = c.SetDocument(context.Background(), &models.Document{Collection: "bishopric"}, false, 0)
	require.Error(t, err)
}

func TestListDocuments(t *testing.T) {
	f := &fakePB{listResp: &pb.ListDocumentsResponse{Documents: []*pb.Document{
		{Collection: "interviews", Id: "interview-1"},
		{Collection: "interviews", Id: "interview-2"},
	}}}
	c := &GRPCClient{client: f}

	docs, err := c.ListDocuments(context.Background(), "interviews", models.Query{
		OrderBy: "date", Descending: true, FilterField: "date", FilterValue: "2025-06-01",
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "interview-2", docs[1].ID)
	assert.Equal(t, &pb.ListDocumentsRequest{
		Collection: "interviews", OrderBy: "date", Descending: true, FilterField: "date", FilterValue: "2025-06-01",
	}, f.lastListReq)

	f.listErr = status.Error(codes.Unavailable, "down")
	_, err = c.ListDocuments(context.Background(), "interviews", models.Query{})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDeleteAndPresign(t *testing.T) {
	f := &fakePB{presignResp: &pb.PresignBackupResponse{Key: "backups/k.json", Url: "https://s3/x"}}
	c := &GRPCClient{client: f}

	require.NoError(t, c.DeleteDocument(context.Background(), "baptismal", "baptism-1"))
	assert.Equal(t, "baptism-1", f.lastDeleteReq.Id)

	key, url, err := c.PresignBackup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backups/k.json", key)
	assert.Equal(t, "https://s3/x", url)

	f.deleteErr = status.Error(codes.PermissionDenied, "role")
	require.ErrorIs(t, c.DeleteDocument(context.Background(), "baptismal", "baptism-1"), ErrUnauthorized)

	f.presignErr = status.Error(codes.Internal, "s3")
	_, _, err = c.PresignBackup(context.Background())
	require.ErrorContains(t, err, "rpc error:")
}

func TestClose_NoConn(t *testing.T) {
	require.NoError(t, (&GRPCClient{}).Close())
}
