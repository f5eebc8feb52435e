package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"todo-app/internal/config"
	"todo-app/internal/models"
	"todo-app/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// EnsureTopic creates the todo events topic with configured partitions.
// Failures are logged; the topic may already exist or be auto-created.
func EnsureTopic(ctx context.Context, cfg *config.Config) {
	if !cfg.EventsEnabled() {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

// MessageWriter is the subset of *kafka.Writer used by Publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes todo events keyed by user so one user's events stay ordered
// within a partition.
type Publisher struct {
	w MessageWriter
}

// NewWriter returns a writer for the configured topic.
func NewWriter(cfg *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 0,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewPublisher wraps w.
func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{w: w}
}

// Publish encodes event as JSON. With an async writer it does not block on the broker.
func (p *Publisher) Publish(ctx context.Context, event models.TodoEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal todo event: %w", err)
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.w.Close()
}
