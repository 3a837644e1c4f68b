//go:build integration

package pending

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(addr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestRedisStore(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	t.Run("consume once", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, Authorization{
			State:        "s1",
			CodeVerifier: "v1",
			ExpiresAt:    time.Now().Add(time.Minute),
		}))

		got, err := store.Consume(ctx, "s1")
		require.NoError(t, err)
		require.Equal(t, "v1", got.CodeVerifier)

		_, err = store.Consume(ctx, "s1")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent consumers have one winner", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, Authorization{
			State:        "s2",
			CodeVerifier: "v2",
			ExpiresAt:    time.Now().Add(time.Minute),
		}))

		var (
			wg   sync.WaitGroup
			wins atomic.Int32
		)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.Consume(ctx, "s2"); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), wins.Load())
	})
}
