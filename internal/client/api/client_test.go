package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/cryptox"
	"github.com/dmitrijs2005/assettrack/internal/logging"
	"github.com/dmitrijs2005/assettrack/internal/server/auth"
	"github.com/dmitrijs2005/assettrack/internal/server/httpserver"
	"github.com/dmitrijs2005/assettrack/internal/server/identity"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assettrack/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubPresigner struct{}

func (stubPresigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	return "http://bucket.test/" + key + "?put", nil
}

func (stubPresigner) PresignGet(ctx context.Context, key string) (string, error) {
	return "http://bucket.test/" + key + "?get", nil
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := repomanager.NewMemoryRepositoryManager()
	codec, err := auth.NewTokenCodec([]byte("client-test"))
	require.NoError(t, err)
	log := logging.Discard()

	router := httpserver.NewRouter(httpserver.Dependencies{
		Users:    services.NewUserService(m, cryptox.NewBcryptHasher(bcrypt.MinCost), codec, time.Minute, log),
		Assets:   services.NewAssetService(m, stubPresigner{}, log),
		Resolver: identity.NewResolver(codec, m.Users(), log),
		Store:    m,
		Logger:   log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_AgainstServer(t *testing.T) {
	srv := newServer(t)
	c := NewClient(srv.URL+"/", 5*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	_, err := c.Me(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	u, err := c.Register(ctx, "alice", "pw123", "")
	require.NoError(t, err)
	assert.Equal(t, "staff", u.Role)

	_, err = c.Register(ctx, "alice", "pw123", "")
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)

	_, err = c.Login(ctx, "alice", "nope")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Empty(t, c.Token())

	tok, err := c.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, tok.AccessToken, c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	a, err := c.CreateAsset(ctx, NewAsset{Name: "Drill", PurchaseDate: "2025-06-01"})
	require.NoError(t, err)
	require.NotNil(t, a.PurchaseDate)
	assert.Equal(t, "Healthy", a.Status)

	_, err = c.CreateAsset(ctx, NewAsset{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.ErrorIs(t, err, common.ErrorValidation)

	a, err = c.UpdateAssetStatus(ctx, a.ID, "Retired")
	require.NoError(t, err)
	assert.Equal(t, "Retired", a.Status)

	l, err := c.AddMaintenance(ctx, a.ID, NewMaintenanceLog{ServiceDate: "2026-01-10", Cost: "19.99"})
	require.NoError(t, err)
	assert.Equal(t, "19.99", l.Cost.String())

	logs, err := c.ListMaintenance(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	up, err := c.CreateAttachment(ctx, a.ID, "photo.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, up.UploadURL, "?put")

	_, err = c.MarkUploaded(ctx, a.ID, up.Attachment.ID)
	require.NoError(t, err)

	dl, err := c.GetAttachment(ctx, a.ID, up.Attachment.ID)
	require.NoError(t, err)
	assert.Contains(t, dl.DownloadURL, "?get")

	atts, err := c.ListAttachments(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, atts, 1)

	list, err := c.ListAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, c.DeleteAsset(ctx, a.ID))
	assert.ErrorIs(t, c.DeleteAsset(ctx, a.ID), common.ErrorNotFound)

	c.SetToken("expired-or-forged")
	_, err = c.Me(ctx)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	err := c.Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_NonEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	err := NewClient(srv.URL, time.Second).Health(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "502", apiErr.Code)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
