package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	username := fields["username"].GetStringValue()
	password := fields["password"].GetStringValue()

	if username == "" || password == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}

	tokens, err := s.users.Login(ctx, username, password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return structpb.NewStruct(map[string]any{
		"access_token": tokens.AccessToken,
		"token_type":   tokens.TokenType,
		"expires_in":   tokens.ExpiresIn,
	})
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return userStruct(user)
}

// Introspect resolves a third-party token. An unusable token is reported as
// inactive, never as an error.
func (s *GRPCServer) Introspect(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	user, err := s.resolver.Resolve(ctx, req.GetValue())
	if err != nil {
		return structpb.NewStruct(map[string]any{"active": false})
	}

	return structpb.NewStruct(map[string]any{
		"active":   true,
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func userStruct(u *models.User) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"role":     u.Role,
	})
}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.PermissionDenied, "incorrect username or password")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		s.logger.Error(ctx, "rpc failed", "error", err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}
