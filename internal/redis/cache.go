package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adopte-server/internal/domain/user"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - user:{user_id} - 5m TTL, profile cache
// - admin:stats - 1m TTL, dashboard counters

// CacheConfig contains configuration for caching
type CacheConfig struct {
	UserTTL  time.Duration
	StatsTTL time.Duration
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		UserTTL:  5 * time.Minute,
		StatsTTL: time.Minute,
	}
}

// CacheStore handles caching in Redis. Every method tolerates a nil client
// and reports a cache miss instead.
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{client: client, config: config}
}

// GetUser retrieves a cached user profile, or nil on a miss.
func (c *CacheStore) GetUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	key := fmt.Sprintf("user:%s", userID.String())
	data, err := c.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var u user.User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *CacheStore) SetUser(ctx context.Context, u user.User) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("user:%s", u.ID.String())
	return c.client.Set(ctx, key, data, c.config.UserTTL).Err()
}

func (c *CacheStore) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, fmt.Sprintf("user:%s", userID.String())).Err()
}

// GetStats retrieves the cached admin dashboard payload, or nil on a miss.
func (c *CacheStore) GetStats(ctx context.Context) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, "admin:stats").Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	return data, err
}

func (c *CacheStore) SetStats(ctx context.Context, payload []byte) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, "admin:stats", payload, c.config.StatsTTL).Err()
}
