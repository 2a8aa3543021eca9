package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/shopstack-backend/internal/config"
)

// MailEventProducer publishes mail events for the worker to deliver
type MailEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewMailEventProducer creates the API's mail producer and ensures the topic exists
func NewMailEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*MailEventProducer, error) {
	if cfg.MailTopic == "" {
		return nil, fmt.Errorf("kafka mail topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for mail producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.MailTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure mail topic %s exists for mail producer: %w", cfg.MailTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.MailTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Email delivery is fire-and-forget from the API's perspective
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.MailTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.MailTopic, "count", len(messages))
			}
		},
	}

	return &MailEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.MailTopic,
	}, nil
}

func (p *MailEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for mail producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message via mail producer",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via mail producer: %w", p.topic, err)
	}

	p.logger.Debug("Published message via mail producer",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *MailEventProducer) Close() error {
	p.logger.Info("Closing mail Kafka message producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close mail kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
