package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"

	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/messaging"
	"dengue-alert-service/internal/models"
)

// Deliverer routes a decoded payload to the active context.
type Deliverer interface {
	Deliver(ctx context.Context, p models.Payload) (messaging.Context, error)
}

type Consumer struct {
	reader *kafka.Reader
	svc    Deliverer
	logger *logging.Logger
}

func NewConsumer(brokers []string, topic, groupID string, svc Deliverer, logger *logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    1 << 20,
	})
	return &Consumer{reader: reader, svc: svc, logger: logger}
}

// Start reads messages in order and hands each one to the service until
// ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Infof("Kafka consumer started on topic %s", c.reader.Config().Topic)
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, io.EOF) {
					c.logger.Infof("Kafka consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}

			if err := c.handleMessage(ctx, msg); err != nil {
				c.logger.Errorf("Message at offset %d skipped: %v", msg.Offset, err)
			}
			if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				c.logger.Errorf("Commit offset %d failed: %v", msg.Offset, err)
			}
		}
	}()
}

// handleMessage decodes one message and delivers it. Decode failures are
// reported and the message is dropped.
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	p, err := models.ParsePayload(msg.Value)
	if err != nil {
		return fmt.Errorf("unmarshal message failed: %w", err)
	}
	target, err := c.svc.Deliver(ctx, p)
	if err != nil {
		return err
	}
	c.logger.Debugf("Processed Kafka message partition=%d offset=%d -> %s", msg.Partition, msg.Offset, target)
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
