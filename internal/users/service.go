package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-user-orders.git/internal/cache"
	"github.com/ariefcatur/go-user-orders.git/internal/events"
	kafkax "github.com/ariefcatur/go-user-orders.git/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
)

type Store interface {
	Create(ctx context.Context, name, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
}

// Publisher enqueues an event for delivery; it never reports broker errors
// back to the caller.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Repo   Store
	Cache  Cache
	Events Publisher
	TTL    time.Duration
	Log    *slog.Logger
}

// Create persists the user and then enqueues a user.created event. The two
// writes share no transaction: a crash after the insert loses the event for
// good, and downstream state that depends on it never converges.
func (s *Service) Create(ctx context.Context, name, email string) (User, error) {
	u, err := s.Repo.Create(ctx, name, email)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	ev := events.UserCreated{
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
	s.Events.Publish([]byte(u.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.TopicUserCreated)},
	)

	s.Log.Info("user created", "user_id", u.ID)
	return u, nil
}

// GetByID is a cache-aside read on the user_{id} key.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	key := cache.UserKey(id)

	var cached User
	if ok, err := s.Cache.Get(ctx, key, &cached); err != nil {
		s.Log.Error("cache get", "key", key, "err", err)
	} else if ok {
		return cached, nil
	}

	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}

	if err := s.Cache.Set(ctx, key, u, s.TTL); err != nil {
		s.Log.Error("cache set", "key", key, "err", err)
	}
	return u, nil
}
