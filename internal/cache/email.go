// Package cache holds emails recovered by the reconciliation fallbacks in
// Redis so repeated dashboard loads skip the remote lookups.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "booking-admin:email:"

// Connect opens a Redis client and verifies it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// EmailCache stores emails by lookup key with a fixed TTL.
type EmailCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewEmailCache constructs an EmailCache.
func NewEmailCache(client redis.Cmdable, ttl time.Duration) *EmailCache {
	return &EmailCache{client: client, ttl: ttl}
}

// Get returns the cached email for key. ok is false on a miss.
func (c *EmailCache) Get(ctx context.Context, key string) (email string, ok bool, err error) {
	email, err = c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return email, true, nil
}

// Set stores email under key.
func (c *EmailCache) Set(ctx context.Context, key, email string) error {
	if err := c.client.Set(ctx, keyPrefix+key, email, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
