package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache(DefaultConfig())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "types", []byte(`["string"]`), 0))
	value, err := c.Get(ctx, "types")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["string"]`), value)

	_, err = c.Get(ctx, "other")
	assert.True(t, IsCacheMiss(err))
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(DefaultConfig())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "types", []byte("x"), time.Minute))
	now = now.Add(30 * time.Second)
	_, err := c.Get(ctx, "types")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "types")
	assert.True(t, IsCacheMiss(err))
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	c := NewMemoryCache(DefaultConfig())
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryCache_DeleteAndClose(t *testing.T) {
	c := NewMemoryCache(DefaultConfig())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a"))

	_, err := c.Get(ctx, "a")
	assert.True(t, IsCacheMiss(err))

	require.NoError(t, c.Close())
	_, err = c.Get(ctx, "b")
	assert.True(t, IsCacheMiss(err))
}

func TestMemoryCache_CanceledContext(t *testing.T) {
	c := NewMemoryCache(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Set(ctx, "a", []byte("1"), 0), context.Canceled)
	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = New(Options{Driver: "memcached"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown cache driver "memcached"`)
}
