package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newCodec(t *testing.T, secret string, clock *fakeClock) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec([]byte(secret), WithClock(clock.Now))
	require.NoError(t, err)
	return c
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: t0}
	c := newCodec(t, "super-secret", clock)

	tok, err := c.Issue(Claims{UserID: 42, Role: "staff"}, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(tok, "."), "compact JWS has three segments")

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, t0.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, t0.Unix(), claims.IssuedAt.Unix())
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	const ttl = 30 * time.Minute
	clock := &fakeClock{now: t0}
	c := newCodec(t, "secret", clock)

	tok, err := c.Issue(Claims{UserID: 1, Role: "staff"}, ttl)
	require.NoError(t, err)

	clock.Set(t0.Add(ttl - time.Second))
	_, err = c.Verify(tok)
	require.NoError(t, err, "token must be valid one second before expiry")

	clock.Set(t0.Add(ttl))
	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired, "expiry instant itself is expired")

	clock.Set(t0.Add(ttl + time.Second))
	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: t0}
	k1 := newCodec(t, "right-secret", clock)
	k2 := newCodec(t, "wrong-secret", clock)

	claims := Claims{UserID: 2, Role: "staff"}
	tok1, err := k1.Issue(claims, time.Hour)
	require.NoError(t, err)
	tok2, err := k2.Issue(claims, time.Hour)
	require.NoError(t, err)

	// Identical payloads, different keys.
	assert.Equal(t, strings.Split(tok1, ".")[1], strings.Split(tok2, ".")[1])

	_, err = k2.Verify(tok1)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
	_, err = k1.Verify(tok2)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestVerify_ExpiredWithWrongKeyReportsSignature(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: t0}
	issuer := newCodec(t, "attacker", clock)
	verifier := newCodec(t, "server", clock)

	tok, err := issuer.Issue(Claims{UserID: 3}, time.Minute)
	require.NoError(t, err)

	clock.Set(t0.Add(time.Hour))
	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
	assert.NotErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: t0}
	c := newCodec(t, "secret", clock)

	tok, err := c.Issue(Claims{UserID: 7, Role: "staff"}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	payload["role"] = "admin"
	forged, err := json.Marshal(payload)
	require.NoError(t, err)

	parts[1] = base64.RawURLEncoding.EncodeToString(forged)
	_, err = c.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: t0}
	c := newCodec(t, "secret", clock)

	tok, err := c.Issue(Claims{UserID: 7, Role: "staff"}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	_, err = c.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: t0}
	c := newCodec(t, "secret", clock)

	claims := Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour))},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Verify(none)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = c.Verify(hs512)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestVerify_MissingExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: t0}
	c := newCodec(t, "secret", clock)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = c.Verify(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	c := newCodec(t, "k", &fakeClock{now: t0})

	for _, tok := range []string{"", "not.a.jwt", "onlyonesegment", "a.b"} {
		_, err := c.Verify(tok)
		assert.ErrorIs(t, err, common.ErrTokenMalformed, "token %q", tok)
	}
}

func TestNewTokenCodec_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCodec(nil)
	assert.Error(t, err)
}
