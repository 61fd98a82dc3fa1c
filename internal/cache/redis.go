package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "matchup:"

// RedisCache stores responses in Redis so several API replicas share one
// cache. Entries expire through Redis TTLs.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// HealthCheck pings Redis to verify connection.
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Get retrieves a value. Redis errors are treated as misses.
func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, string, bool) {
	data, err := rc.client.Get(ctx, redisPrefix+key).Bytes()
	if err != nil {
		return nil, "", false
	}
	return data, ComputeETag(data), true
}

// Set stores a value with a TTL. A failed write only costs a future miss.
func (rc *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) string {
	rc.client.Set(ctx, redisPrefix+key, data, ttl)
	return ComputeETag(data)
}

// Purge deletes every key under the cache prefix.
func (rc *RedisCache) Purge(ctx context.Context) error {
	iter := rc.client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := rc.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	return nil
}

// Stats reports the backend and its reachability.
func (rc *RedisCache) Stats() map[string]interface{} {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stats := map[string]interface{}{"backend": "redis", "enabled": true}
	if err := rc.client.Ping(ctx).Err(); err != nil {
		stats["status"] = "unreachable"
		stats["error"] = err.Error()
		return stats
	}
	stats["status"] = "connected"
	if n, err := rc.client.DBSize(ctx).Result(); err == nil {
		stats["db_keys"] = n
	}
	return stats
}
