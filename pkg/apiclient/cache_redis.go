package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
)

// RedisCacheConfig configures a Redis-backed cache.
type RedisCacheConfig struct {
	Addr     string `mapstructure:"addr"     yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	DB       int    `mapstructure:"db"       yaml:"db"`
	// Prefix is prepended to every key. Defaults to "vendorapi:".
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	// Client reuses an existing client, which the cache will not close.
	Client *redis.Client `mapstructure:"-" yaml:"-"`
}

// RedisCache stores entries in Redis with a TTL matching each entry's expiry.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	ownsClient bool
}

// NewRedisCache creates a Redis cache and pings the server.
func NewRedisCache(ctx context.Context, config *RedisCacheConfig) (*RedisCache, error) {
	if config == nil {
		return nil, ErrRedisConfigRequired
	}

	client := config.Client
	ownsClient := false

	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		})
		ownsClient = true
	}

	err := client.Ping(ctx).Err()
	if err != nil {
		if ownsClient {
			_ = client.Close()
		}

		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = constants.DefaultRedisPrefix
	}

	return &RedisCache{client: client, prefix: prefix, ownsClient: ownsClient}, nil
}

// Get returns the entry for key, ErrCacheMiss, or ErrCacheExpired.
func (c *RedisCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}

		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry CacheEntry

	err = json.Unmarshal(data, &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.IsExpired() {
		_ = c.Delete(ctx, key)

		return nil, ErrCacheExpired
	}

	return &entry, nil
}

// Set stores entry under key. Entries already past ExpiresAt are skipped.
func (c *RedisCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	ttl := entry.TTL()
	if !entry.ExpiresAt.IsZero() && ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	err = c.client.Set(ctx, c.prefix+key, data, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.prefix+key).Err()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// Clear removes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}

	err := iter.Err()
	if err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}

	return nil
}

// Has reports whether an unexpired entry exists for key.
func (c *RedisCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close closes the client when the cache created it.
func (c *RedisCache) Close() error {
	if !c.ownsClient {
		return nil
	}

	err := c.client.Close()
	if err != nil {
		return fmt.Errorf("closing redis client: %w", err)
	}

	return nil
}
