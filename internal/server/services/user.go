// Package services holds the server's business logic. UserService registers
// accounts and exchanges credentials for access tokens; AssetService manages
// assets, their maintenance history and their attachments.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/cryptox"
	"github.com/dmitrijs2005/assettrack/internal/logging"
	"github.com/dmitrijs2005/assettrack/internal/server/auth"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/repomanager"
)

const tokenTypeBearer = "bearer"

// TokenResponse is what a successful login returns.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(claims auth.Claims, ttl time.Duration) (string, error)
}

type registerInput struct {
	Username string `json:"username" validate:"required,notblank,max=50"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"max=20"`
}

type UserService struct {
	repomanager                 repomanager.RepositoryManager
	hasher                      cryptox.Hasher
	tokens                      TokenIssuer
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewUserService(m repomanager.RepositoryManager, hasher cryptox.Hasher, tokens TokenIssuer,
	accessTokenValidityDuration time.Duration, logger logging.Logger) *UserService {
	return &UserService{
		repomanager:                 m,
		hasher:                      hasher,
		tokens:                      tokens,
		accessTokenValidityDuration: accessTokenValidityDuration,
		logger:                      logger,
	}
}

// Register hashes password and stores a new user. An empty role becomes
// "staff". A taken username fails with common.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	role = strings.TrimSpace(role)
	if role == "" {
		role = common.DefaultRole
	}

	if err := validateStruct(registerInput{Username: username, Password: password, Role: role}); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrEmptyPassword) {
			return nil, fieldError("password", "is required")
		}
		return nil, fieldError("password", err.Error())
	}

	user, err := s.repomanager.Users().Create(ctx, &models.User{
		Username:     username,
		PasswordHash: digest,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login checks the credentials and issues an access token. An unknown
// username and a wrong password both yield common.ErrInvalidCredentials,
// and both run one digest comparison.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	username = strings.TrimSpace(username)
	user, err := s.repomanager.Users().GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnVerify(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password digest unreadable", "user_id", user.ID, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Claims{UserID: user.ID, Role: user.Role}, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.accessTokenValidityDuration / time.Second),
	}, nil
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users().GetUserByID(ctx, id)
}

// burnVerify compares password against a throwaway digest so a lookup miss
// costs about as much as a real mismatch.
func (s *UserService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		seed, err := common.MakeRandHexString(16)
		if err != nil {
			return
		}
		if d, err := s.hasher.Hash(seed); err == nil {
			s.dummyDigest = d
		}
	})
	if s.dummyDigest != "" {
		_, _ = s.hasher.Verify(password, s.dummyDigest)
	}
}
