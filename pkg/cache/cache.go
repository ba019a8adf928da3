package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Cache is a thin wrapper over a Redis client. A nil *Cache (or a Cache
// built with an empty address) disables caching: every method becomes a
// no-op so callers never need to branch on availability.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis at addr. An empty addr returns a disabled cache.
func NewCache(addr string) *Cache {
	if addr == "" {
		logrus.Info("Redis address not configured, response caching disabled")
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Warn("Redis unreachable, response caching disabled")
		return &Cache{}
	}

	logrus.WithField("addr", addr).Info("Connected to Redis")
	return &Cache{client: client}
}

// Get returns the cached value for key, or "" when absent or caching is disabled.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c == nil || c.client == nil {
		return "", nil
	}
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Set stores value under key with the given expiration.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key, value, expiration).Err()
}

// Delete removes a single key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

// DeleteAll removes every key matching pattern using SCAN.
func (c *Cache) DeleteAll(ctx context.Context, pattern string) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
