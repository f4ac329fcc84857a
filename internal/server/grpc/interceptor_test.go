package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	pb "github.com/dmitrijs2005/wardminutes/internal/proto"
	"github.com/dmitrijs2005/wardminutes/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func callIntercepted(t *testing.T, s *GRPCServer, ctx context.Context, method string) (string, error) {
	t.Helper()
	var seenRole string
	handler := func(ctx context.Context, req any) (any, error) {
		seenRole = roleFromContext(ctx)
		return "ok", nil
	}
	_, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	return seenRole, err
}

func tokenCtx(t *testing.T, role string, validity time.Duration) context.Context {
	t.Helper()
	tok, _, err := auth.GenerateToken(role, []byte(testSecret), validity)
	require.NoError(t, err)
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, tok))
}

func TestAccessTokenInterceptor_PublicMethods(t *testing.T) {
	s := newServer(newMemDocs(), &pinAuth{}, &stubBackups{})

	for _, m := range []string{pb.DocumentStore_Ping_FullMethodName, pb.DocumentStore_Authenticate_FullMethodName} {
		_, err := callIntercepted(t, s, context.Background(), m)
		require.NoError(t, err, m)
	}
}

func TestAccessTokenInterceptor_RequiresToken(t *testing.T) {
	s := newServer(newMemDocs(), &pinAuth{}, &stubBackups{})

	_, err := callIntercepted(t, s, context.Background(), pb.DocumentStore_GetDocument_FullMethodName)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, "garbage"))
	_, err = callIntercepted(t, s, bad, pb.DocumentStore_GetDocument_FullMethodName)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, common.ErrInvalidToken.Error(), st.Message())
}

func TestAccessTokenInterceptor_ExpiredToken(t *testing.T) {
	s := newServer(newMemDocs(), &pinAuth{}, &stubBackups{})

	_, err := callIntercepted(t, s, tokenCtx(t, auth.RoleClerk, -time.Minute), pb.DocumentStore_SetDocument_FullMethodName)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, common.ErrTokenExpired.Error(), st.Message())
}

func TestAccessTokenInterceptor_PutsRoleInContext(t *testing.T) {
	s := newServer(newMemDocs(), &pinAuth{}, &stubBackups{})

	role, err := callIntercepted(t, s, tokenCtx(t, auth.RoleBishopric, time.Hour), pb.DocumentStore_ListDocuments_FullMethodName)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleBishopric, role)
}

func TestAuthorize(t *testing.T) {
	require.NoError(t, authorize(withRole(auth.RoleClerk), "sacramental"))
	require.NoError(t, authorize(withRole(auth.RoleBishopric), "interviews"))
	assert.Equal(t, codes.PermissionDenied, status.Code(authorize(withRole(auth.RoleClerk), "interviews")))
	assert.Equal(t, codes.PermissionDenied, status.Code(authorize(context.Background(), "bishopric")))
}
