package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes JSON events. The underlying writer is created
// lazily on first use and shared by the whole process; kafka-go redials
// dropped broker connections on subsequent writes.
type KafkaPublisher struct {
	brokers []string

	mu     sync.Mutex
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{brokers: brokers}
}

func (p *KafkaPublisher) getWriter() *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writer == nil {
		p.writer = &kafka.Writer{
			Addr:                   kafka.TCP(p.brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
			BatchTimeout:           10 * time.Millisecond,
		}
	}
	return p.writer
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", topic, err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.getWriter().WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: publish %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}
