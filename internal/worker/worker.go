package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"todo-app/internal/config"
	"todo-app/internal/models"
	"todo-app/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader used by Worker.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Invalidator drops cached state for a user.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(ctx context.Context, userID string)

func (f InvalidatorFunc) Invalidate(ctx context.Context, userID string) { f(ctx, userID) }

// NewReader returns a consumer-group reader for the todo events topic.
func NewReader(cfg *config.Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// Worker consumes todo events and invalidates the owner's cached list, so
// replicas that did not perform the write stop serving stale lists.
type Worker struct {
	reader    MessageReader
	cache     Invalidator
	processed atomic.Int64
	// retryDelay is the pause after a failed fetch, so a broker outage does
	// not spin the loop.
	retryDelay time.Duration
}

// New returns a worker reading from r.
func New(r MessageReader, cache Invalidator) *Worker {
	return &Worker{reader: r, cache: cache, retryDelay: time.Second}
}

// Processed returns the number of events applied so far.
func (w *Worker) Processed() int64 {
	return w.processed.Load()
}

// Run consumes until ctx is done. It closes the reader on return.
func (w *Worker) Run(ctx context.Context) error {
	defer w.reader.Close()
	logger.Info(ctx, "Kafka consumer started")
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Kafka consumer stopped", "processed", w.Processed())
				return nil
			}
			logger.Error(ctx, "Worker fetch failed", "error", err, "retry_in", w.retryDelay.String())
			select {
			case <-ctx.Done():
			case <-time.After(w.retryDelay):
			}
			continue
		}
		if err := w.handleMessage(ctx, msg.Value); err != nil {
			// Commit anyway to avoid a poison pill blocking the partition.
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
		} else {
			w.processed.Add(1)
		}
		if err := w.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, payload []byte) error {
	var ev models.TodoEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	switch ev.Type {
	case models.EventCreated, models.EventUpdated, models.EventDeleted:
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.UserID == "" {
		return fmt.Errorf("event %s for todo %s has no userId", ev.Type, ev.TodoID)
	}
	w.cache.Invalidate(ctx, ev.UserID)
	logger.Debug(ctx, "Todo event applied", "type", ev.Type, "user_id", ev.UserID, "todo_id", ev.TodoID)
	return nil
}
