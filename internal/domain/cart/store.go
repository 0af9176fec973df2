// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCartNotFound is returned when no cart exists for the session.
var ErrCartNotFound = errors.New("cart not found")

// Storage persists carts across sessions. Every mutation writes the full
// cart synchronously; reads rehydrate the stored state.
type Storage interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type redisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage creates Redis-backed cart storage
func NewRedisStorage(client *redis.Client, ttl time.Duration) Storage {
	return &redisStorage{client: client, ttl: ttl}
}

func storageKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *redisStorage) Load(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.client.Get(ctx, storageKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode stored cart: %w", err)
	}
	return &c, nil
}

func (s *redisStorage) Save(ctx context.Context, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	// Each save refreshes the TTL, so active carts stay durable
	if err := s.client.Set(ctx, storageKey(c.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *redisStorage) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, storageKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
