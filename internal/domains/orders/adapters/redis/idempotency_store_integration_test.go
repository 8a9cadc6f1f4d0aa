//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())

	cleanup := func() {
		_ = client.Close()
		container.Terminate(ctx)
	}
	return client, cleanup
}

func TestIdempotencyStore_SaveGetAndConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()

	missing, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: "o-1"})
	require.NoError(t, err)

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "o-1", got.OrderID)

	same, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "h1", same.RequestHash)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", OrderID: "o-2"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "o-1", existing.OrderID)

	ttl, err := client.TTL(ctx, key("k1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
