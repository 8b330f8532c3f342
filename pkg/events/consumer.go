package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// fetcher is the slice of kafka.Reader the consume loop needs.
type fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Consumer owns one consumer group. Each Consume call is one subscription: a
// blocking receive loop on a topic, committing offsets only after the handler
// succeeds, which gives at-least-once delivery across restarts.
type Consumer struct {
	brokers []string
	group   string
	log     *slog.Logger

	fetchBackoff  time.Duration
	handleBackoff time.Duration
}

func NewConsumer(brokers []string, group string, log *slog.Logger) *Consumer {
	return &Consumer{
		brokers:       brokers,
		group:         group,
		log:           log,
		fetchBackoff:  time.Second,
		handleBackoff: time.Second,
	}
}

// Consume blocks until ctx is cancelled. Broker errors are retried with a
// backoff; the reader reconnects on its own, so a broker outage delays
// consumption instead of killing the subscription.
func (c *Consumer) Consume(ctx context.Context, topic string, h Handler) error {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.brokers,
		GroupID:  c.group,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer r.Close()

	return c.consume(ctx, topic, r, h)
}

func (c *Consumer) consume(ctx context.Context, topic string, r fetcher, h Handler) error {
	l := c.log.With("topic", topic, "group", c.group)
	l.Info("subscribed")

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				l.Info("subscription stopped")
				return nil
			}
			l.Error("fetch failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.fetchBackoff):
			}
			continue
		}

		// Group commits are cumulative per partition: committing a later
		// offset would acknowledge this message too. A failing handler
		// therefore blocks the partition and the message is retried in place.
		for {
			err := h(ctx, msg.Value)
			if err == nil {
				break
			}
			l.Error("handler failed, message not acknowledged", "offset", msg.Offset, "error", err)
			select {
			case <-ctx.Done():
				l.Info("subscription stopped")
				return nil
			case <-time.After(c.handleBackoff):
			}
		}

		if err := r.CommitMessages(ctx, msg); err != nil {
			l.Error("commit failed", "offset", msg.Offset, "error", err)
		}
	}
}
