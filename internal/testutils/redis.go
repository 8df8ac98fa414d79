package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RedisAddrEnv points integration tests at an existing server instead of a
// container. Its database 15 is flushed before and after each test.
const RedisAddrEnv = "EMO_TEST_REDIS_ADDR"

const redisImage = "redis:7-alpine"

// StartRedisContainer returns a client for an empty Redis. It uses the
// server named by RedisAddrEnv when set, otherwise a throwaway container.
// The test is skipped when neither is reachable.
func StartRedisContainer(t *testing.T) redis.UniversalClient {
	t.Helper()
	if addr := os.Getenv(RedisAddrEnv); addr != "" {
		return existingRedis(t, addr)
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Docker not available for %s: %v", redisImage, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.Eventually(t, func() bool { return ping(client) == nil }, 10*time.Second, 100*time.Millisecond,
		"redis at %s never answered", endpoint)
	return client
}

func existingRedis(t *testing.T, addr string) redis.UniversalClient {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := ping(client); err != nil {
		_ = client.Close()
		t.Skipf("Redis at %s not available: %v", addr, err)
	}

	ctx := context.Background()
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

func ping(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}
