package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// OrderEventPublisher announces placed orders.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
}

// ReviewEventPublisher announces review writes so the product's average
// rating can be recomputed off the request path.
type ReviewEventPublisher interface {
	PublishReviewChanged(ctx context.Context, review *models.Review) error
}

// NotificationSender delivers user notifications.
type NotificationSender interface {
	Send(ctx context.Context, notification *models.Notification) error
}

// TokenGenerator produces order transaction references.
type TokenGenerator interface {
	NewTxRef() string
}

// UUIDTokenGenerator issues "tx_" prefixed random UUIDs.
type UUIDTokenGenerator struct{}

func (UUIDTokenGenerator) NewTxRef() string {
	return "tx_" + uuid.NewString()
}
