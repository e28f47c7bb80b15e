package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer decouples publishing from delivery: Publish enqueues into an inbox
// channel and returns, a background loop writes to the broker. The caller is
// never acknowledged, so a crash between a database commit and the broker
// write silently drops the event (no outbox, accepted trade-off).
type Producer struct {
	w     *kafka.Writer
	inbox chan kafka.Message
	done  chan struct{}
	log   *slog.Logger
}

func NewProducer(brokers []string, topic string, buf int, log *slog.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
		log:   log,
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer func() {
			_ = p.w.Close()
			close(p.done)
		}()
		for {
			select {
			case m, ok := <-p.inbox:
				if !ok {
					return
				}
				p.write(m)
			case <-ctx.Done():
				// flush whatever is already queued, then exit
				for {
					select {
					case m, ok := <-p.inbox:
						if !ok {
							return
						}
						p.write(m)
					default:
						return
					}
				}
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.log.Error("kafka write", "topic", p.w.Topic, "err", err)
	}
}

// Publish enqueues a message. Key doubles as the partition key so events for
// one entity keep their order.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	p.inbox <- kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Close stops accepting messages; the loop flushes the inbox and exits.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the background loop has drained and closed the writer.
func (p *Producer) WaitClosed() { <-p.done }
