package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process cache. Expired entries are dropped when read.
type MemoryCache struct {
	mu     sync.RWMutex
	data   map[string]cacheItem
	config Config
	now    func() time.Time
}

type cacheItem struct {
	value      []byte
	expiration time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(config Config) *MemoryCache {
	return &MemoryCache{
		data:   make(map[string]cacheItem),
		config: config,
		now:    time.Now,
	}
}

// Get retrieves a value from the cache
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullKey := m.config.Prefix + key
	m.mu.RLock()
	item, ok := m.data[fullKey]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss{Key: key}
	}

	if !item.expiration.IsZero() && m.now().After(item.expiration) {
		m.mu.Lock()
		delete(m.data, fullKey)
		m.mu.Unlock()
		return nil, ErrCacheMiss{Key: key}
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a value in the cache with a TTL
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}
	item := cacheItem{value: make([]byte, len(value))}
	copy(item.value, value)
	if ttl > 0 {
		item.expiration = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.data[m.config.Prefix+key] = item
	m.mu.Unlock()
	return nil
}

// Delete removes a value from the cache
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, m.config.Prefix+key)
	m.mu.Unlock()
	return nil
}

// Close drops every entry
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	m.data = make(map[string]cacheItem)
	m.mu.Unlock()
	return nil
}
