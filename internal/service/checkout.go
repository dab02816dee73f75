package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

const notificationTimeout = 10 * time.Second

// CheckoutService turns a user's live cart into a pending order.
type CheckoutService struct {
	tx         repository.Transactor
	cart       repository.CartRepository
	addresses  repository.AddressRepository
	orders     repository.OrderRepository
	orderCache repository.OrderCache
	events     OrderEventPublisher
	notifier   NotificationSender
	tokens     TokenGenerator
	features   config.FeatureFlags
	now        func() time.Time
	pending    sync.WaitGroup
	logger     *logging.LoggerV2
}

// CheckoutDeps groups the collaborators of a CheckoutService.
type CheckoutDeps struct {
	Tx         repository.Transactor
	Cart       repository.CartRepository
	Addresses  repository.AddressRepository
	Orders     repository.OrderRepository
	OrderCache repository.OrderCache
	Events     OrderEventPublisher
	Notifier   NotificationSender
	Tokens     TokenGenerator
}

func NewCheckoutService(deps CheckoutDeps, features config.FeatureFlags) *CheckoutService {
	tokens := deps.Tokens
	if tokens == nil {
		tokens = UUIDTokenGenerator{}
	}
	return &CheckoutService{
		tx:         deps.Tx,
		cart:       deps.Cart,
		addresses:  deps.Addresses,
		orders:     deps.Orders,
		orderCache: deps.OrderCache,
		events:     deps.Events,
		notifier:   deps.Notifier,
		tokens:     tokens,
		features:   features,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logging.NewLoggerV2("checkout-service"),
	}
}

// Checkout places an order for every live cart line of the user, shipping to
// the user's address addressID. The cart lines are re-parented onto the new
// order in the same transaction that creates it, so afterwards the cart is
// empty and a repeated call fails with ErrEmptyCart. When two checkouts race,
// the loser waits on the row locks and then finds the cart empty.
func (s *CheckoutService) Checkout(ctx context.Context, userID, addressID int64) (*models.Order, error) {
	s.logger.Info("Checkout started", logging.Fields{
		"user_id":    userID,
		"address_id": addressID,
	})

	var order *models.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		lines, err := s.cart.LockLive(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return errors.ErrEmptyCart
		}

		addr, err := s.addresses.GetForUser(ctx, addressID, userID)
		if errors.Is(err, errors.ErrNotFound) {
			return errors.ErrAddressNotFound
		}
		if err != nil {
			return err
		}

		order, err = s.createOrder(ctx, userID, addr)
		if err != nil {
			return err
		}

		n, err := s.cart.Reparent(ctx, userID, order.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.ErrEmptyCart
		}

		if int(n) == len(lines) {
			order.Items = make([]models.OrderLine, 0, len(lines))
			for _, line := range lines {
				order.Items = append(order.Items, line.ToOrderLine(order.ID))
			}
			return nil
		}

		// A line was added after the lock was taken and got re-parented too.
		order.Items, err = s.orders.ListLines(ctx, order.ID)
		return err
	})

	metrics.CheckoutsTotal.WithLabelValues(checkoutResult(err)).Inc()
	if err != nil {
		s.logger.Warn("Checkout failed", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	s.afterCommit(ctx, order)

	s.logger.Info("Checkout completed", logging.Fields{
		"user_id":    userID,
		"order_id":   order.ID,
		"tx_ref":     order.TxRef,
		"item_count": order.ItemCount(),
	})

	return order, nil
}

// createOrder inserts the order header, drawing a second reference if the
// first one collides.
func (s *CheckoutService) createOrder(ctx context.Context, userID int64, addr *models.ShippingAddress) (*models.Order, error) {
	const attempts = 2

	var err error
	for i := 0; i < attempts; i++ {
		order := models.NewPendingOrder(userID, s.tokens.NewTxRef(), addr, s.now())
		err = s.orders.Create(ctx, order)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("allocating order reference: %w", err)
}

func (s *CheckoutService) afterCommit(ctx context.Context, order *models.Order) {
	if s.features.EnableOrderCaching && s.orderCache != nil {
		if err := s.orderCache.InvalidateByUserID(ctx, order.UserID); err != nil {
			s.logger.Error("Failed to invalidate order history cache", logging.Fields{
				"user_id": order.UserID,
				"error":   err.Error(),
			})
		}
	}

	if s.features.EnableOrderEvents && s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Error("Failed to publish order created event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	if s.features.EnableNotifications && s.notifier != nil {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			defer cancel()
			s.sendOrderConfirmation(nctx, order)
		}()
	}
}

func (s *CheckoutService) sendOrderConfirmation(ctx context.Context, order *models.Order) {
	n := &models.Notification{
		Type:    models.NotificationTypeOrderConfirmation,
		UserID:  order.UserID,
		Email:   order.Shipping.Email,
		Subject: "Order Confirmation",
		Body:    fmt.Sprintf("Your order %s has been received.", order.TxRef),
		Metadata: map[string]string{
			"tx_ref":     order.TxRef,
			"item_count": fmt.Sprintf("%d", order.ItemCount()),
			"subtotal":   fmt.Sprintf("%.2f", order.Subtotal()),
		},
	}

	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Error("Failed to send order confirmation", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
}

// Wait blocks until every confirmation started by Checkout has finished.
func (s *CheckoutService) Wait() {
	s.pending.Wait()
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errors.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, errors.ErrAddressNotFound):
		return "address_not_found"
	default:
		return "error"
	}
}
