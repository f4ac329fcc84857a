package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	pb "github.com/dmitrijs2005/wardminutes/internal/proto"
	"github.com/dmitrijs2005/wardminutes/internal/records"
	"github.com/dmitrijs2005/wardminutes/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const roleKey ctxKey = "role"

// publicMethods skip the token check.
var publicMethods = map[string]bool{
	pb.DocumentStore_Ping_FullMethodName:         true,
	pb.DocumentStore_Authenticate_FullMethodName: true,
}

// restrictedCollections can only be touched with the bishopric role.
var restrictedCollections = map[string]bool{
	string(records.KindBishopric):  true,
	string(records.KindInterviews): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	role, err := auth.GetRoleFromToken(accessToken, s.jwtSecret)
	if errors.Is(err, common.ErrTokenExpired) {
		return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	return handler(context.WithValue(ctx, roleKey, role), req)
}

func roleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

// authorize checks the caller's role against collection.
func authorize(ctx context.Context, collection string) error {
	if restrictedCollections[collection] && roleFromContext(ctx) != auth.RoleBishopric {
		return status.Errorf(codes.PermissionDenied, "collection %q requires the bishopric role", collection)
	}
	return nil
}
