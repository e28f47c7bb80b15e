package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient bounds every command at 2s so a hung Redis cannot stall callers
// that run without a request deadline, such as the event consumer.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Store is a lossy accelerator in front of Postgres: entries hold JSON
// snapshots, Redis owns expiry, and the database stays the source of truth.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

// Get unmarshals the entry at key into dest. The second return is false on a
// clean miss; a decode failure or Redis error is returned so callers can
// decide to fall through to the store.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			misses.WithLabelValues(kindOf(key)).Inc()
			return false, nil
		}
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	hits.WithLabelValues(kindOf(key)).Inc()
	return true, nil
}

func (s *Store) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
