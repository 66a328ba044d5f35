// Package auth issues and verifies the signed access tokens handed out at
// login. Tokens are HS256 JWTs and carry everything needed to validate them,
// so nothing is stored server-side and a token can only die by expiring.
//
// Expiry is compared against the codec clock in UTC with no leeway; hosts
// with skewed clocks will see tokens expire early or late by the skew.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity assertion embedded in an access token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies access tokens with a single shared secret.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// Option customises a TokenCodec.
type Option func(*TokenCodec)

// WithClock replaces the wall clock used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec returns a codec signing with secretKey. An empty key is
// rejected since HMAC with an empty key authenticates nothing.
func NewTokenCodec(secretKey []byte, opts ...Option) (*TokenCodec, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("token codec: empty secret key")
	}
	c := &TokenCodec{
		secret: secretKey,
		method: jwt.SigningMethodHS256,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs claims with an expiry of now+ttl. Registered claims already set
// by the caller are overwritten.
func (c *TokenCodec) Issue(claims Claims, ttl time.Duration) (string, error) {
	issuedAt := c.now().UTC()

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(claims.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}

	token := jwt.NewWithClaims(c.method, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, then the expiry, and returns the decoded
// claims. The failure is one of common.ErrTokenMalformed,
// common.ErrInvalidSignature, common.ErrTokenExpired or common.ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	// jwt/v5 verifies the signature before it validates exp, so an unsigned
	// or re-signed exp is never trusted.
	token, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return c.secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", common.ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
}
