package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"billing-backend/internal/billing"
	"billing-backend/internal/cache"
)

// DefaultListTTL is used when a service has no ListTTL configured.
const DefaultListTTL = 5 * time.Minute

// cachedList serves GET list responses from Redis when possible. Mutations
// call cache.InvalidateEntity. Without a Redis client it always loads.
func cachedList[T any](ctx context.Context, entity string, f billing.ListFilter, ttl time.Duration, load func() ([]T, error)) ([]T, error) {
	key := cache.ListKey(entity, f.Year, string(f.Quarter))
	if data, ok := cache.GetCached(ctx, key); ok {
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		log.Warn().Str("key", key).Msg("Discarding unreadable list cache entry")
	}

	items, err := load()
	if err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	if data, err := json.Marshal(items); err == nil {
		cache.SetCached(ctx, key, data, ttl)
	}
	return items, nil
}
