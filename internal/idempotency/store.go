package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyOrderCreate maps an Idempotency-Key to the order it created.
const keyOrderCreate = "idem:order:create:%s"

// Store remembers which order an idempotency key produced.
type Store interface {
	Lookup(ctx context.Context, key string) (orderID string, found bool, err error)
	Remember(ctx context.Context, key, orderID string) error
}

// NewRedisClient creates a client for addr.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// RedisStore keeps idempotency keys in Redis with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	orderID, err := s.rdb.Get(ctx, fmt.Sprintf(keyOrderCreate, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return orderID, true, nil
}

// Remember stores key -> orderID unless the key already exists.
func (s *RedisStore) Remember(ctx context.Context, key, orderID string) error {
	if err := s.rdb.SetNX(ctx, fmt.Sprintf(keyOrderCreate, key), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}
