package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	c := NewRedisCacheWithClient(client, DefaultConfig())
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "parameter-types", []byte(`["string","integer"]`), 0))

	value, err := c.Get(ctx, "parameter-types")
	require.NoError(t, err)
	assert.Equal(t, `["string","integer"]`, string(value))

	// keys are prefixed and carry the default TTL
	assert.True(t, mr.Exists("catalog:parameter-types"))
	assert.Equal(t, 5*time.Minute, mr.TTL("catalog:parameter-types"))
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := setupTestRedis(t)

	_, err := c.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("catalog:k"))
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := New(Options{Driver: "redis", RedisAddr: mr.Addr(), Config: DefaultConfig()})
	require.NoError(t, err)
	defer c.Close()
	assert.IsType(t, &RedisCache{}, c)
}

func TestNewRedisCache_ConnectionError(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{Addr: "localhost:99999", Config: DefaultConfig()})
	assert.Error(t, err)
}
