// Package kafka consumes studio change events and refreshes the live index.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/studiodex/internal/config"
	"github.com/kailas-cloud/studiodex/internal/domain"
)

// Defaults for event batching.
const (
	DefaultBatchSize  = 100
	DefaultFlushEvery = 500 * time.Millisecond
	retryDelay        = time.Second
)

// Event is a studio change notification.
type Event struct {
	Event     string   `json:"event"`
	StudioID  string   `json:"studio_id,omitempty"`
	StudioIDs []string `json:"studio_ids,omitempty"`
}

// IDs returns every studio ID the event refers to.
func (e Event) IDs() []string {
	ids := make([]string, 0, len(e.StudioIDs)+1)
	if e.StudioID != "" {
		ids = append(ids, e.StudioID)
	}
	for _, id := range e.StudioIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Updater refreshes studios in the live index.
type Updater interface {
	UpdateByID(ctx context.Context, ids []string) (int, error)
}

// reader is the consumer interface over *kafka.Reader (ISP).
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewReader creates a consumer-group reader for the studio change topic.
func NewReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
	})
}

// Consumer folds change events into batched update calls.
// Messages are committed only after their batch was applied.
type Consumer struct {
	reader     reader
	updater    Updater
	logger     *zap.Logger
	batchSize  int
	flushEvery time.Duration
}

// NewConsumer creates a consumer.
func NewConsumer(r reader, u Updater, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:     r,
		updater:    u,
		logger:     logger,
		batchSize:  DefaultBatchSize,
		flushEvery: DefaultFlushEvery,
	}
}

// WithBatch overrides the batch size and the flush window.
func (c *Consumer) WithBatch(size int, flushEvery time.Duration) *Consumer {
	if size > 0 {
		c.batchSize = size
	}
	if flushEvery > 0 {
		c.flushEvery = flushEvery
	}
	return c
}

type batch struct {
	msgs []kafka.Message
	ids  []string
	seen map[string]bool
}

func (b *batch) add(msg kafka.Message, ids []string) {
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	b.msgs = append(b.msgs, msg)
	for _, id := range ids {
		if !b.seen[id] {
			b.seen[id] = true
			b.ids = append(b.ids, id)
		}
	}
}

func (b *batch) empty() bool { return len(b.msgs) == 0 }

// Run consumes until ctx is cancelled. Pending, unapplied messages stay uncommitted.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("kafka consumer started")
	var pending batch

	for {
		msg, err := c.next(ctx, !pending.empty())
		switch {
		case err == nil:
			pending.add(msg, c.decode(msg))
			if len(pending.ids) < c.batchSize {
				continue
			}
		case ctx.Err() != nil:
			c.logger.Info("kafka consumer stopping")
			return nil
		case errors.Is(err, context.DeadlineExceeded):
			// flush window elapsed
		default:
			c.logger.Warn("kafka fetch failed", zap.Error(err))
			sleep(ctx, retryDelay)
			continue
		}

		if err := c.flush(ctx, &pending); err != nil {
			c.logger.Error("apply studio changes failed", zap.Int("studios", len(pending.ids)), zap.Error(err))
			sleep(ctx, retryDelay)
		}
	}
}

// next fetches one message. While a batch is pending the wait is bounded by the flush window.
func (c *Consumer) next(ctx context.Context, waiting bool) (kafka.Message, error) {
	if !waiting {
		return c.reader.FetchMessage(ctx)
	}
	fetchCtx, cancel := context.WithTimeout(ctx, c.flushEvery)
	defer cancel()
	return c.reader.FetchMessage(fetchCtx)
}

func (c *Consumer) decode(msg kafka.Message) []string {
	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		c.logger.Warn("skip malformed studio event",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}
	ids := ev.IDs()
	if len(ids) == 0 {
		c.logger.Warn("skip studio event without ids", zap.String("event", ev.Event), zap.Int64("offset", msg.Offset))
	}
	return ids
}

// flush applies the batch and commits its messages.
// A missing index is not an error: the next build reads the catalog anyway.
func (c *Consumer) flush(ctx context.Context, b *batch) error {
	if b.empty() {
		return nil
	}
	if len(b.ids) > 0 {
		n, err := c.updater.UpdateByID(ctx, b.ids)
		switch {
		case errors.Is(err, domain.ErrIndexNotBuilt):
			c.logger.Warn("index not built, studio changes left to the next build", zap.Int("studios", len(b.ids)))
		case err != nil:
			return err
		default:
			c.logger.Info("studio changes applied", zap.Int("studios", len(b.ids)), zap.Int("documents", n))
		}
	}
	if err := c.reader.CommitMessages(ctx, b.msgs...); err != nil {
		return err
	}
	*b = batch{}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
