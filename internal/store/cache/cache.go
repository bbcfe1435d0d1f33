// Package cache provides the key/value backends the store uses to keep
// slow-changing lookups, such as the parameter type list, off the database.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache defines the interface for all cache backends
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with a TTL. A zero TTL uses the
	// backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error

	// Close releases the backend
	Close() error
}

// Config holds common configuration for cache backends
type Config struct {
	// DefaultTTL is the default time-to-live for cached items
	DefaultTTL time.Duration
	// Prefix is prepended to all cache keys
	Prefix string
}

// DefaultConfig returns a default cache configuration
func DefaultConfig() Config {
	return Config{
		DefaultTTL: 5 * time.Minute,
		Prefix:     "catalog:",
	}
}

// ErrCacheMiss is returned when a key is not found in the cache
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	_, ok := err.(ErrCacheMiss)
	return ok
}

// Options selects and configures a backend.
type Options struct {
	// Driver is "memory" or "redis"; empty means memory
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Config        Config
}

// New builds the backend named by opts.Driver.
func New(opts Options) (Cache, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryCache(opts.Config), nil
	case "redis":
		return NewRedisCache(RedisConfig{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Config:   opts.Config,
		})
	default:
		return nil, fmt.Errorf("unknown cache driver %q", opts.Driver)
	}
}
