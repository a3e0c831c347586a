package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/logging"
	"github.com/itsatony/sensorhub/internal/repository"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.TokenStore = (*TokenStore)(nil)

func TestMain(m *testing.M) {
	if _, err := logging.Setup("error"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "sensorhub:lease:u1:t1", leaseKey("u1", "t1"))
	assert.Equal(t, "sensorhub:leases:u1", userKey("u1"))
}

// testStore connects to TEST_REDIS_ADDR (default localhost:6379) and skips when unreachable.
func testStore(t *testing.T) *TokenStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { client.Close() })
	return NewTokenStore(client)
}

func TestLeaseLifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	user := uuid.NewString()
	first, second := uuid.NewString(), uuid.NewString()

	require.NoError(t, store.Grant(ctx, user, first, time.Minute))
	require.NoError(t, store.Grant(ctx, user, second, time.Minute))

	active, err := store.IsActive(ctx, user, first)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, store.Revoke(ctx, user, first))
	active, err = store.IsActive(ctx, user, first)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = store.IsActive(ctx, user, second)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, store.RevokeAll(ctx, user))
	active, err = store.IsActive(ctx, user, second)
	require.NoError(t, err)
	assert.False(t, active)
}
