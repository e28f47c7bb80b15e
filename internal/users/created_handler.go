package users

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-user-orders.git/internal/cache"
	"github.com/ariefcatur/go-user-orders.git/internal/events"
	kafkago "github.com/segmentio/kafka-go"
)

type SnapshotCache interface {
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
}

// CreatedHandler consumes user.created in the order service. Its only side
// effect is priming the user_{id} snapshot, which stays correct when the
// broker redelivers: setting the same snapshot twice is a no-op.
type CreatedHandler struct {
	Cache SnapshotCache
	TTL   time.Duration
	Log   *slog.Logger
}

func (h *CreatedHandler) Handle(ctx context.Context, m kafkago.Message) error {
	var ev events.UserCreated
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		// Malformed payloads would be redelivered forever; log and ack.
		h.Log.Error("decode user.created", "offset", m.Offset, "err", err)
		return nil
	}
	if err := ev.Validate(); err != nil {
		h.Log.Error("reject user.created", "offset", m.Offset, "err", err)
		return nil
	}

	u := User{ID: ev.UserID, Name: ev.Name, Email: ev.Email, CreatedAt: ev.CreatedAt}
	if err := h.Cache.Set(ctx, cache.UserKey(u.ID), u, h.TTL); err != nil {
		return fmt.Errorf("prime user cache: %w", err) // no commit, redelivered
	}

	h.Log.Info("user.created processed", "user_id", u.ID)
	return nil
}
