package cache

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"bank_transactions/internal/logger"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func newRedisCache(t *testing.T) *RedisPageCache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	t.Cleanup(func() { _ = client.Close() })

	prefix := "test_tx_page_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	c := NewRedisPageCache(client, time.Minute, logger.Discard()).WithPrefix(prefix)
	t.Cleanup(func() {
		ctx := context.Background()
		_ = c.Clear(ctx)
		client.Del(ctx, c.genKey())
	})
	return c
}

func TestRedisPageCache_GetPutClear(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()
	key := Key{Page: 0, Size: 10}

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Put(ctx, key, samplePage(1, 2), c.Generation(ctx))
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Len(t, got.Content, 2)
	assert.Equal(t, int64(2), got.TotalElements)

	require.NoError(t, c.Clear(ctx))
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestRedisPageCache_StalePutDropped(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()
	key := Key{Page: 1, Size: 5}

	gen := c.Generation(ctx)
	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, gen+1, c.Generation(ctx))

	c.Put(ctx, key, samplePage(1), gen)
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
}
