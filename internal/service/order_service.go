package service

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// OrderService serves a user's placed orders.
type OrderService struct {
	orderRepo  repository.OrderRepository
	orderCache repository.OrderCache
	features   config.FeatureFlags
	logger     *logging.LoggerV2
}

// NewOrderService creates a new order service. orderCache may be nil.
func NewOrderService(orderRepo repository.OrderRepository, orderCache repository.OrderCache, features config.FeatureFlags) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		orderCache: orderCache,
		features:   features,
		logger:     logging.NewLoggerV2("order-service"),
	}
}

func (s *OrderService) cachingEnabled() bool {
	return s.features.EnableOrderCaching && s.orderCache != nil
}

// ListOrders returns the user's orders newest first, each with its lines.
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	s.logger.Debug("Listing user orders", logging.Fields{"user_id": userID})

	// Check cache first
	if s.cachingEnabled() {
		if orders, err := s.orderCache.GetByUserID(ctx, userID); err == nil && orders != nil {
			s.logger.Debug("User orders found in cache", logging.Fields{"user_id": userID})
			return orders, nil
		}
	}

	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cachingEnabled() {
		if err := s.orderCache.SetByUserID(ctx, userID, orders); err != nil {
			// Log but don't fail
			s.logger.Error("Failed to cache user orders", logging.Fields{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	return orders, nil
}

// GetOrderLines returns the lines of the user's order with the given
// transaction reference. Another user's order is reported as not found.
func (s *OrderService) GetOrderLines(ctx context.Context, userID int64, txRef string) ([]models.OrderLine, error) {
	order, err := s.orderRepo.GetByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		s.logger.Warn("Order lookup by non-owner", logging.Fields{
			"user_id": userID,
			"tx_ref":  txRef,
		})
		return nil, errors.ErrNotFound
	}

	return s.orderRepo.ListLines(ctx, order.ID)
}
