package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"dengue-alert-service/internal/models"
)

// Producer publishes push payloads onto the alert topic.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(broker, topic string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// Publish writes p keyed by region so a region's alerts stay in order.
func (p *Producer) Publish(ctx context.Context, payload models.Payload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	msg := kafka.Message{Value: value}
	if payload.Data != nil && payload.Data.Region != "" {
		msg.Key = []byte(payload.Data.Region)
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish payload: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
