// Package identity turns a presented bearer token into the user it names.
// Both transports authenticate through Resolver, so a request is accepted
// only when the token verifies and its user still exists.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/logging"
	"github.com/dmitrijs2005/assettrack/internal/server/auth"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/users"
)

// TokenVerifier checks a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Resolver struct {
	verifier TokenVerifier
	users    users.Repository
	logger   logging.Logger
}

func NewResolver(verifier TokenVerifier, users users.Repository, logger logging.Logger) *Resolver {
	return &Resolver{verifier: verifier, users: users, logger: logger}
}

// Resolve returns the user behind token. Every failure, whatever its cause,
// is reported as common.ErrorUnauthorized; the cause is only logged.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, r.reject(ctx, "missing", nil)
	}

	claims, err := r.verifier.Verify(token)
	if err != nil {
		return nil, r.reject(ctx, failureKind(err), err)
	}
	if claims.UserID <= 0 {
		return nil, r.reject(ctx, "missing_subject", nil)
	}

	user, err := r.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, r.reject(ctx, "unknown_user", nil, "user_id", claims.UserID)
		}
		return nil, r.reject(ctx, "lookup_failed", err, "user_id", claims.UserID)
	}

	return user, nil
}

func (r *Resolver) reject(ctx context.Context, kind string, cause error, args ...any) error {
	args = append(args, "reason", kind)
	if cause != nil {
		args = append(args, "error", cause.Error())
	}
	r.logger.Warn(ctx, "bearer token rejected", args...)
	return common.ErrorUnauthorized
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrInvalidSignature):
		return "bad_signature"
	case errors.Is(err, common.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
