package service

import (
	"context"
	"math"
	"strings"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// CartService manages a user's live cart lines.
type CartService struct {
	products repository.ProductRepository
	cart     repository.CartRepository
	logger   *logging.LoggerV2
}

func NewCartService(products repository.ProductRepository, cart repository.CartRepository) *CartService {
	return &CartService{
		products: products,
		cart:     cart,
		logger:   logging.NewLoggerV2("cart-service"),
	}
}

// Toggle sets the quantity of the product identified by slug in the user's
// cart. A positive quantity creates or updates the line; zero removes it.
// Removing a line that is not there is a no-op reported as removed.
func (s *CartService) Toggle(ctx context.Context, userID int64, slug string, quantity int) (*models.ToggleResult, error) {
	slug = strings.TrimSpace(slug)
	if err := ValidateToggle(slug, quantity); err != nil {
		return nil, err
	}

	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	var result *models.ToggleResult
	if quantity == 0 {
		removed, err := s.cart.DeleteLine(ctx, userID, product.ID)
		if err != nil {
			return nil, err
		}
		if !removed {
			s.logger.Debug("Removal of absent cart line", logging.Fields{
				"user_id": userID,
				"slug":    slug,
			})
		}
		result = &models.ToggleResult{Outcome: models.ToggleRemoved}
	} else {
		lineID, created, err := s.cart.UpsertLine(ctx, userID, product.ID, quantity)
		if err != nil {
			return nil, err
		}
		outcome := models.ToggleUpdated
		if created {
			outcome = models.ToggleCreated
		}
		result = &models.ToggleResult{
			Outcome: outcome,
			Line: &models.CartLine{
				ID:       lineID,
				UserID:   userID,
				LineItem: models.LineItem{Product: *product, Quantity: quantity},
			},
		}
	}

	metrics.CartTogglesTotal.WithLabelValues(string(result.Outcome)).Inc()
	s.logger.Info("Cart toggled", logging.Fields{
		"user_id":  userID,
		"slug":     slug,
		"quantity": quantity,
		"outcome":  result.Outcome,
	})

	return result, nil
}

// List returns the user's live cart lines with product details.
func (s *CartService) List(ctx context.Context, userID int64) ([]models.CartLine, error) {
	return s.cart.ListLive(ctx, userID)
}

// MaxLineQuantity is the largest quantity a single cart line can hold.
const MaxLineQuantity = math.MaxInt32

// ValidateToggle checks a toggle request before any store access.
func ValidateToggle(slug string, quantity int) error {
	fe := errors.FieldErrors{}
	if slug == "" {
		fe.Add("slug", "product slug is required")
	}
	if quantity < 0 {
		fe.Add("quantity", "quantity cannot be negative")
	} else if quantity > MaxLineQuantity {
		fe.Add("quantity", "quantity is too large")
	}
	return fe.Err()
}
