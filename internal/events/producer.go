// Package events publishes auth lifecycle events to Kafka. Consumers
// downstream (mailers, session dashboards) react to them; the auth service
// itself never depends on delivery.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	UserRegistered  = "user_registered"
	PasswordReset   = "password_reset"
	SessionsRevoked = "sessions_revoked"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

// PublishEvent writes one event keyed by user id so per-user ordering holds.
func (p *Producer) PublishEvent(ctx context.Context, eventType, key string, extra map[string]any) error {
	payload := map[string]any{
		"type":        eventType,
		"user_id":     key,
		"occurred_at": time.Now().UTC(),
	}
	for k, v := range extra {
		payload[k] = v
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: marshal failed: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data}); err != nil {
		return fmt.Errorf("events: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
