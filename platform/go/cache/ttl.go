// Package cache provides short-lived lookup caches in front of store point reads.
package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the sturdyc sizing knobs.
type Config struct {
	// Capacity is the maximum number of entries. Must be greater than 0.
	Capacity int
	// NumShards splits the cache for concurrent access. Must be greater than 0.
	NumShards int
	// TTL is how long a fetched value is served. Zero disables caching.
	TTL time.Duration
	// EvictionPercentage is evicted when the cache is full. Must be between 1 and 100.
	EvictionPercentage int
}

// DefaultConfig sizes a cache for per-profile lookups.
func DefaultConfig(ttl time.Duration) Config {
	return Config{
		Capacity:           10000,
		NumShards:          16,
		TTL:                ttl,
		EvictionPercentage: 10,
	}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// Validate checks the configuration. A zero TTL is valid and disables the cache.
func (c Config) Validate() error {
	if c.TTL < 0 {
		return &ConfigError{Field: "TTL", Message: "must be non-negative"}
	}
	if c.TTL == 0 {
		return nil
	}
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// TTL caches fetched values per key. Concurrent fetches of one key are deduplicated.
type TTL[T any] struct {
	client *sturdyc.Client[T]
}

// New builds a TTL cache; with a zero TTL every call goes to the fetch function.
func New[T any](cfg Config) (*TTL[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TTL == 0 {
		return &TTL[T]{}, nil
	}

	return &TTL[T]{
		client: sturdyc.New[T](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
	}, nil
}

// GetOrFetch returns the cached value for key or calls fetch and stores its result. Errors are not cached.
func (c *TTL[T]) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil || c.client == nil {
		return fetch(ctx)
	}
	return c.client.GetOrFetch(ctx, key, fetch)
}

// Delete drops key so the next read fetches again.
func (c *TTL[T]) Delete(key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Delete(key)
}

// Size reports the number of cached entries.
func (c *TTL[T]) Size() int {
	if c == nil || c.client == nil {
		return 0
	}
	return c.client.Size()
}
