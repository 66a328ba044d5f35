package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/server/identity"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userKey ctxKey = "user"

var protectedMethods = map[string]bool{
	WhoAmIFullMethodName:     true,
	IntrospectFullMethodName: true,
}

// UserFromContext returns the user attached by the access token interceptor.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(strings.ToLower(common.AuthorizationHeaderName))
		if len(values) > 0 {
			token, _ = identity.BearerToken(values[0])
		}
	}

	user, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	return handler(context.WithValue(ctx, userKey, user), req)
}
