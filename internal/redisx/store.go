package redisx

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"github.com/redis/go-redis/v9"
	"time"
)

// Store is the Redis store.Backend. TTL 0 keeps slots forever.
type Store struct {
	Redis *redis.Client
	TTL   time.Duration
}

func slotKey(scope, key string) string { return fmt.Sprintf(KeySlot, scope, key) }

func (s *Store) Get(ctx context.Context, scope, key string) ([]byte, error) {
	b, err := s.Redis.Get(ctx, slotKey(scope, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return b, nil
}

func (s *Store) Set(ctx context.Context, scope, key string, value []byte) error {
	if err := s.Redis.Set(ctx, slotKey(scope, key), value, s.TTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, scope, key string) error {
	if err := s.Redis.Del(ctx, slotKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}
