package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a byte-oriented cache with explicit invalidation. A nil or
// unavailable backend degrades to misses, never to request failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Redis implements Cache on a shared Redis client. Keys are namespaced with
// Prefix so multiple services can share one instance.
type Redis struct {
	Client *redis.Client
	Prefix string
}

func (r *Redis) key(key string) string {
	if r.Prefix == "" {
		return key
	}
	return r.Prefix + ":" + key
}

// Get returns the cached bytes and whether the key was present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r == nil || r.Client == nil {
		return nil, false, nil
	}
	raw, err := r.Client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

// Set stores the value under the key for ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Set(ctx, r.key(key), value, ttl).Err()
}

// Invalidate removes the key. Missing keys are not an error.
func (r *Redis) Invalidate(ctx context.Context, key string) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Del(ctx, r.key(key)).Err()
}
