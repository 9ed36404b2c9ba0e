package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"billing-backend/internal/metrics"
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every cache
// call degrades to a no-op, so the service keeps working from Postgres.
func Init(addr, password string, db int) error {
	if addr == "" {
		return fmt.Errorf("redis address not configured")
	}

	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return err
	}
	client = c
	return nil
}

// SetClient installs c; nil disables caching.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client, or nil when Redis is unavailable
func GetClient() *redis.Client {
	return client
}

// Close closes the client if one is open
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// ============================================
// Generic Cache Functions
// ============================================

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// ============================================
// List Cache Keys
// ============================================

// ListKey is the cache key of a GET /api/{entity}?year=&quarter= response.
func ListKey(entity string, year int, quarter string) string {
	return fmt.Sprintf("%s:list:%d:%s", entity, year, quarter)
}

// InvalidateEntity clears every cached list of an entity
// Called when: Create, Update, Delete, status transitions
func InvalidateEntity(ctx context.Context, entity string) {
	InvalidatePattern(ctx, entity+":*")
}

// InvalidateSettingCaches clears all setting-related caches
// Called when: UpdateSupportChatConfig
func InvalidateSettingCaches(ctx context.Context) {
	InvalidatePattern(ctx, "settings:*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy(ctx context.Context) bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
