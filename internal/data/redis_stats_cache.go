package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStatsCache implements the StatsCache port on Redis. Values are JSON
// encoded; a missing key is a miss, not an error.
type RedisStatsCache struct {
	client redis.UniversalClient
}

// NewRedisStatsCache creates a RedisStatsCache with the given client.
func NewRedisStatsCache(client redis.UniversalClient) *RedisStatsCache {
	return &RedisStatsCache{client: client}
}

// Get retrieves and decodes a cached value into dest.
func (c *RedisStatsCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if key == "" {
		return false, errors.New("key cannot be empty")
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached value for %s: %w", key, err)
	}
	return true, nil
}

// Set encodes value as JSON and stores it with the given TTL.
func (c *RedisStatsCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate removes the given keys. Missing keys are not an error.
func (c *RedisStatsCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
