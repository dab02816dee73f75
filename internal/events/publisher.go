package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"
)

var (
	_ service.OrderEventPublisher  = (*KafkaPublisher)(nil)
	_ service.ReviewEventPublisher = (*KafkaPublisher)(nil)
	_ service.OrderEventPublisher  = (*MockEventPublisher)(nil)
	_ service.ReviewEventPublisher = (*MockEventPublisher)(nil)
)

// EventType represents the type of storefront event.
type EventType string

const (
	EventTypeOrderCreated  EventType = "order.created"
	EventTypeReviewChanged EventType = "review.changed"
)

// Event is the envelope written to every topic.
type Event struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	Key           string          `json:"key"`
	UserID        int64           `json:"user_id"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// OrderCreatedData is the payload of order.created.
type OrderCreatedData struct {
	OrderID   int64   `json:"order_id"`
	TxRef     string  `json:"tx_ref"`
	ItemCount int     `json:"item_count"`
	Subtotal  float64 `json:"subtotal"`
}

// ReviewChangedData is the payload of review.changed.
type ReviewChangedData struct {
	ReviewID  int64 `json:"review_id"`
	ProductID int64 `json:"product_id"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes storefront events to Kafka. One writer serves
// every topic; each message names its own.
type KafkaPublisher struct {
	writer       messageWriter
	ordersTopic  string
	reviewsTopic string
	logger       *logging.LoggerV2
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.LoggerV2) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return newKafkaPublisher(writer, cfg, logger)
}

func newKafkaPublisher(w messageWriter, cfg config.KafkaConfig, logger *logging.LoggerV2) *KafkaPublisher {
	return &KafkaPublisher{
		writer:       w,
		ordersTopic:  cfg.OrdersTopic,
		reviewsTopic: cfg.ReviewsTopic,
		logger:       logger,
	}
}

// PublishOrderCreated publishes an order created event keyed by tx_ref.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	p.logger.Debug("Publishing order created event", logging.Fields{
		"order_id": order.ID,
		"tx_ref":   order.TxRef,
	})

	data, err := json.Marshal(OrderCreatedData{
		OrderID:   order.ID,
		TxRef:     order.TxRef,
		ItemCount: order.ItemCount(),
		Subtotal:  service.CalculateOrderTotal(order).Subtotal,
	})
	if err != nil {
		return err
	}

	event := p.createEvent(ctx, EventTypeOrderCreated, order.TxRef, order.UserID, data)
	return p.publish(ctx, p.ordersTopic, event)
}

// PublishReviewChanged publishes a review changed event keyed by product so
// that a product's events stay on one partition.
func (p *KafkaPublisher) PublishReviewChanged(ctx context.Context, review *models.Review) error {
	p.logger.Debug("Publishing review changed event", logging.Fields{
		"review_id":  review.ID,
		"product_id": review.ProductID,
	})

	data, err := json.Marshal(ReviewChangedData{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
	})
	if err != nil {
		return err
	}

	key := strconv.FormatInt(review.ProductID, 10)
	event := p.createEvent(ctx, EventTypeReviewChanged, key, review.UserID, data)
	return p.publish(ctx, p.reviewsTopic, event)
}

func (p *KafkaPublisher) createEvent(ctx context.Context, eventType EventType, key string, userID int64, data []byte) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Key:           key,
		UserID:        userID,
		Data:          data,
		Timestamp:     time.Now().UTC(),
		CorrelationID: middleware.RequestIDFromContext(ctx),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, topic string, event *Event) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(event.Key),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", logging.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
			"topic":      topic,
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Info("Event published", logging.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"topic":      topic,
		"key":        event.Key,
	})

	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}

// MockEventPublisher records events for tests and for running without
// Kafka.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*Event
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	m.record(&Event{Type: EventTypeOrderCreated, Key: order.TxRef, UserID: order.UserID})
	return nil
}

func (m *MockEventPublisher) PublishReviewChanged(ctx context.Context, review *models.Review) error {
	m.record(&Event{
		Type:   EventTypeReviewChanged,
		Key:    strconv.FormatInt(review.ProductID, 10),
		UserID: review.UserID,
	})
	return nil
}

func (m *MockEventPublisher) record(e *Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a copy of the recorded events.
func (m *MockEventPublisher) Events() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Event(nil), m.events...)
}
