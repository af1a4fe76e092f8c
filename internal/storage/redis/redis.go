package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LautaroYamil/trabajo-practico-2/internal/storage"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
)

const keyPrefix = "storefront:"

// Store implements storage.Store on Redis strings. Every cart write refreshes
// the cart's TTL so abandoned carts expire. Order history never expires.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a Redis-backed store. ttl applies to cart keys only; zero
// keeps carts forever too.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Get reads key from Redis.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.NotFound("key", key)
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

// Set writes key to Redis. Cart keys get the configured TTL.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, s.ttlFor(key)).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) ttlFor(key string) time.Duration {
	if storage.BaseKey(key) != storage.KeyCart {
		return 0
	}
	return s.ttl
}

// Ping checks connectivity; used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
