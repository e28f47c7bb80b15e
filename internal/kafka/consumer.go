package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler must return nil only when processing succeeded and the offset may
// be committed. On a non-nil error the consumer keeps the message in place
// and retries it; it never reads past an unprocessed message, because commits
// are cumulative per partition and acking a later offset would silently ack
// the failed one too. At-least-once, not exactly-once.
type Handler func(ctx context.Context, m kafka.Message) error

// Reader is the slice of kafka.Reader the consumer needs; tests substitute a
// fake. FetchMessage rather than ReadMessage: in group mode ReadMessage
// commits on its own.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const retryBackoff = 200 * time.Millisecond

type Consumer struct {
	r       Reader
	log     *slog.Logger
	backoff time.Duration
}

func NewConsumer(brokers []string, group, topic string, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // synchronous commits
	})
	return &Consumer{r: r, log: log, backoff: retryBackoff}
}

// Start processes one message at a time until ctx is cancelled. Commit on
// success is the ack; a handler error holds the partition on the failing
// message, retrying with backoff until it succeeds or ctx ends. A restarted
// consumer resumes from the last committed offset, so the broker redelivers
// the failing message and everything after it.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	backoff := c.backoff
	if backoff <= 0 {
		backoff = retryBackoff
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		for {
			err := h(ctx, m)
			if err == nil {
				break
			}
			c.log.Error("handle message", "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
		}

		if err := c.r.CommitMessages(ctx, m); err != nil {
			c.log.Error("commit message", "topic", m.Topic, "offset", m.Offset, "err", err)
		}
	}
}
