package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/cryptox"
	"github.com/dmitrijs2005/assettrack/internal/logging"
	"github.com/dmitrijs2005/assettrack/internal/server/auth"
	"github.com/dmitrijs2005/assettrack/internal/server/identity"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assettrack/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type testBackend struct {
	store *repomanager.MemoryRepositoryManager
	users *services.UserService
	srv   *GRPCServer
}

func newBackend(t *testing.T) *testBackend {
	t.Helper()

	m := repomanager.NewMemoryRepositoryManager()
	codec, err := auth.NewTokenCodec([]byte("grpc-secret"))
	require.NoError(t, err)

	log := logging.Discard()
	us := services.NewUserService(m, cryptox.NewBcryptHasher(bcrypt.MinCost), codec, time.Hour, log)
	res := identity.NewResolver(codec, m.Users(), log)

	return &testBackend{store: m, users: us, srv: NewGRPCServer("127.0.0.1:0", log, us, res)}
}

// dial serves b over an in-memory listener and returns a client connection.
func (b *testBackend) dial(t *testing.T) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- b.srv.serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})
	return conn
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func loginReq(t *testing.T, username, password string) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(map[string]any{"username": username, "password": password})
	require.NoError(t, err)
	return s
}

func TestIdentityService_EndToEnd(t *testing.T) {
	b := newBackend(t)
	_, err := b.users.Register(context.Background(), "alice", "pw123", "")
	require.NoError(t, err)

	client := NewIdentityServiceClient(b.dial(t))
	ctx := context.Background()

	resp, err := client.Login(ctx, loginReq(t, "alice", "pw123"))
	require.NoError(t, err)
	token := resp.GetFields()["access_token"].GetStringValue()
	require.NotEmpty(t, token)
	assert.Equal(t, "bearer", resp.GetFields()["token_type"].GetStringValue())
	assert.Equal(t, float64(3600), resp.GetFields()["expires_in"].GetNumberValue())

	_, err = client.Login(ctx, loginReq(t, "alice", "wrongpw"))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = client.Login(ctx, loginReq(t, "", ""))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	me, err := client.WhoAmI(withToken(ctx, token), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "alice", me.GetFields()["username"].GetStringValue())
	assert.Equal(t, "staff", me.GetFields()["role"].GetStringValue())
	assert.Equal(t, float64(1), me.GetFields()["id"].GetNumberValue())

	_, err = client.WhoAmI(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "unauthorized", status.Convert(err).Message())

	_, err = client.WhoAmI(withToken(ctx, "not-a-jwt"), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "unauthorized", status.Convert(err).Message())

	active, err := client.Introspect(withToken(ctx, token), wrapperspb.String(token))
	require.NoError(t, err)
	assert.True(t, active.GetFields()["active"].GetBoolValue())
	assert.Equal(t, "alice", active.GetFields()["username"].GetStringValue())

	inactive, err := client.Introspect(withToken(ctx, token), wrapperspb.String("forged"))
	require.NoError(t, err)
	assert.False(t, inactive.GetFields()["active"].GetBoolValue())
	assert.Len(t, inactive.GetFields(), 1)

	_, err = client.Introspect(ctx, wrapperspb.String(token))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	require.NoError(t, b.store.UserStore().Delete(ctx, 1))
	_, err = client.WhoAmI(withToken(ctx, token), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestHealthService(t *testing.T) {
	b := newBackend(t)
	hc := healthpb.NewHealthClient(b.dial(t))

	resp, err := hc.Check(context.Background(), &healthpb.HealthCheckRequest{Service: IdentityServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newBackend(t).srv

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	srv := NewGRPCServer("127.0.0.1:99999", logging.Discard(), b.users, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
