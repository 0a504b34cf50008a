package cache

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// Redis is a cache backend over Redis. Each identity maps to one hash so
// invalidation is a single DEL.
type Redis struct {
	rdb *redis.Client
}

// NewRedis connects to Redis from a REDIS_URL-style connection string
func NewRedis(rawURL string) (*Redis, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &Redis{rdb: redis.NewClient(opt)}, nil
}

func hashName(identity string) string {
	return "territory:" + identity
}

// Get returns the cached payload for a key, if present
func (r *Redis) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	payload, err := r.rdb.HGet(ctx, hashName(key.Identity), key.Field()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return payload, true, nil
}

// Set stores a payload under a key
func (r *Redis) Set(ctx context.Context, key Key, payload []byte) error {
	if err := r.rdb.HSet(ctx, hashName(key.Identity), key.Field(), payload).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate drops every payload cached for an identity
func (r *Redis) Invalidate(ctx context.Context, identity string) error {
	if err := r.rdb.Del(ctx, hashName(identity)).Err(); err != nil {
		return fmt.Errorf("redis invalidate failed: %w", err)
	}
	return nil
}
