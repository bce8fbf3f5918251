// internal/chat/cache/redis_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealth-assistant/internal/common/logger"
)

func newRedisCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedis(client, 5*time.Minute, "chat:response:", logger.NewNoOpLogger()), mr
}

func TestRedis_PutGet(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	c.Put(ctx, "What is my AUM?", "answer")

	got, ok := c.Get(ctx, "  what is   my aum?")
	require.True(t, ok)
	assert.Equal(t, "answer", got)
}

func TestRedis_MissOnAbsent(t *testing.T) {
	c, _ := newRedisCache(t)

	_, ok := c.Get(context.Background(), "never stored")
	assert.False(t, ok)
}

func TestRedis_TTLExpiry(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	c.Put(ctx, "q", "answer")

	mr.FastForward(5*time.Minute - time.Second)
	_, ok := c.Get(ctx, "q")
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok = c.Get(ctx, "q")
	assert.False(t, ok)
}

func TestRedis_ClearRemovesOnlyPrefixedKeys(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	c.Put(ctx, "a", "1")
	c.Put(ctx, "b", "2")
	require.NoError(t, mr.Set("unrelated:key", "keep"))

	c.Clear(ctx)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)

	val, err := mr.Get("unrelated:key")
	require.NoError(t, err)
	assert.Equal(t, "keep", val)
}
