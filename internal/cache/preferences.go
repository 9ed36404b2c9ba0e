package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Preferences is a billing.PreferencesBackend stored in Redis without expiry.
type Preferences struct {
	client *redis.Client
}

// NewPreferences wraps c.
func NewPreferences(c *redis.Client) *Preferences {
	return &Preferences{client: c}
}

func (p *Preferences) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := p.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (p *Preferences) Save(ctx context.Context, key string, value []byte) error {
	return p.client.Set(ctx, key, value, 0).Err()
}

func (p *Preferences) Delete(ctx context.Context, key string) error {
	return p.client.Del(ctx, key).Err()
}
