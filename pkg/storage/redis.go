package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a KV implementation backed by a Redis server
type Redis struct {
	client *redis.Client
}

// NewRedis returns a Redis-backed store
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the value for the key, or ErrNotFound
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return data, nil
}

// Set stores the value. A ttl of 0 means no expiration.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Remove deletes the key
func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
