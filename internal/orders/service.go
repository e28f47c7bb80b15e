package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-user-orders.git/internal/cache"
	"github.com/ariefcatur/go-user-orders.git/internal/userclient"
)

type Store interface {
	Create(ctx context.Context, userID, product string, price float64) (Order, error)
	FindByUserID(ctx context.Context, userID string) ([]Order, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type UserLookup interface {
	Get(ctx context.Context, id string) (userclient.User, error)
}

type Service struct {
	Repo  Store
	Cache Cache
	Users UserLookup
	TTL   time.Duration
	Log   *slog.Logger
}

// Create verifies the user against the user service, persists the order, then
// invalidates the user's order-list snapshot. The verify step is a hard
// precondition: an unknown user means nothing is written. The cache delete is
// best-effort; a failure only extends staleness until TTL expiry, because the
// order is already durable.
func (s *Service) Create(ctx context.Context, userID, product string, price float64) (Order, error) {
	if _, err := s.Users.Get(ctx, userID); err != nil {
		if errors.Is(err, userclient.ErrNotFound) {
			return Order{}, ErrUserNotFound
		}
		return Order{}, fmt.Errorf("verify user %s: %w: %v", userID, ErrUserServiceUnavailable, err)
	}

	o, err := s.Repo.Create(ctx, userID, product, price)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := s.Cache.Delete(ctx, cache.UserOrdersKey(userID)); err != nil {
		s.Log.Error("invalidate order cache", "user_id", userID, "err", err)
	}

	s.Log.Info("order created", "order_id", o.ID, "user_id", userID)
	return o, nil
}

// ListByUser is the cache-aside read path: hit returns the snapshot verbatim,
// miss queries the store and repopulates with TTL. This path never deletes;
// invalidation belongs to the writer. A read racing a concurrent write can
// repopulate a pre-write snapshot after the writer's delete, leaving a stale
// entry for up to one TTL window.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	key := cache.UserOrdersKey(userID)

	var cached []Order
	if ok, err := s.Cache.Get(ctx, key, &cached); err != nil {
		s.Log.Error("cache get", "key", key, "err", err) // treat as a miss
	} else if ok {
		return cached, nil
	}

	list, err := s.Repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	if err := s.Cache.Set(ctx, key, list, s.TTL); err != nil {
		s.Log.Error("cache set", "key", key, "err", err)
	}
	return list, nil
}
