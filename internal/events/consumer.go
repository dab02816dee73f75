package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
)

// RatingUpdater recomputes a product's average rating.
type RatingUpdater interface {
	Recompute(ctx context.Context, productID int64) (float64, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	maxHandleAttempts = 3
	retryBackoff      = 500 * time.Millisecond
)

// RatingConsumer consumes review.changed events and refreshes the affected
// product's average rating. Offsets are committed after handling, so an
// event is seen again after a crash; recomputing is idempotent.
type RatingConsumer struct {
	reader   messageReader
	ratings  RatingUpdater
	logger   *logging.LoggerV2
	backoff  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRatingConsumer creates a consumer for the reviews topic.
func NewRatingConsumer(cfg config.KafkaConfig, ratings RatingUpdater, logger *logging.LoggerV2) *RatingConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.ReviewsTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return newRatingConsumer(reader, ratings, logger)
}

func newRatingConsumer(r messageReader, ratings RatingUpdater, logger *logging.LoggerV2) *RatingConsumer {
	return &RatingConsumer{
		reader:  r,
		ratings: ratings,
		logger:  logger,
		backoff: retryBackoff,
		stopCh:  make(chan struct{}),
	}
}

// Start consumes until ctx is cancelled or Stop is called.
func (c *RatingConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting rating consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Rating consumer stopped")
			return nil
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			select {
			case <-c.stopCh:
				c.logger.Info("Rating consumer stopped")
				return nil
			default:
			}
			c.logger.Error("Failed to read message", logging.Fields{"error": err.Error()})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.stopCh:
				c.logger.Info("Rating consumer stopped")
				return nil
			case <-time.After(c.backoff):
			}
			continue
		}

		if !c.process(ctx, msg) {
			return nil
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message", logging.Fields{
				"offset": msg.Offset,
				"error":  err.Error(),
			})
		}
	}
}

// process handles msg, retrying transient failures with a linear backoff.
// It returns false when the consumer was stopped while waiting.
func (c *RatingConsumer) process(ctx context.Context, msg kafka.Message) bool {
	for attempt := 1; ; attempt++ {
		err := c.handleMessage(ctx, msg)
		if err == nil {
			return true
		}
		if attempt == maxHandleAttempts {
			c.logger.Error("Giving up on message", logging.Fields{
				"offset":   msg.Offset,
				"attempts": attempt,
				"error":    err.Error(),
			})
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-c.stopCh:
			return false
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
}

// Stop stops the consumer. It is safe to call more than once.
func (c *RatingConsumer) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.reader.Close(); err != nil {
			c.logger.Warn("Failed to close reader", logging.Fields{"error": err.Error()})
		}
	})
}

// handleMessage returns an error only for failures worth retrying.
// Malformed and unknown events are logged and skipped.
func (c *RatingConsumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	c.logger.Debug("Received message", logging.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to unmarshal event", logging.Fields{"error": err.Error()})
		return nil
	}

	if event.Type != EventTypeReviewChanged {
		c.logger.Debug("Ignoring unknown event type", logging.Fields{"type": event.Type})
		return nil
	}

	var data ReviewChangedData
	if err := json.Unmarshal(event.Data, &data); err != nil || data.ProductID == 0 {
		c.logger.Error("Invalid review changed payload", logging.Fields{"event_id": event.ID})
		return nil
	}

	if _, err := c.ratings.Recompute(ctx, data.ProductID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			c.logger.Warn("Rated product no longer exists", logging.Fields{
				"product_id": data.ProductID,
			})
			return nil
		}
		c.logger.Error("Failed to recompute rating", logging.Fields{
			"product_id": data.ProductID,
			"event_id":   event.ID,
			"error":      err.Error(),
		})
		return err
	}

	return nil
}
