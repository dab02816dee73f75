package service

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// SellerService lets approved sellers manage their own products and see the
// orders placed for them. Users without an approved seller profile get
// ErrForbidden.
type SellerService struct {
	tx       repository.Transactor
	sellers  repository.SellerRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	logger   *logging.LoggerV2
}

func NewSellerService(tx repository.Transactor, sellers repository.SellerRepository, products repository.ProductRepository, orders repository.OrderRepository) *SellerService {
	return &SellerService{
		tx:       tx,
		sellers:  sellers,
		products: products,
		orders:   orders,
		logger:   logging.NewLoggerV2("seller-service"),
	}
}

func (s *SellerService) approvedSeller(ctx context.Context, userID int64) (*models.Seller, error) {
	seller, err := s.sellers.GetByUserID(ctx, userID)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !seller.Approved {
		return nil, errors.ErrForbidden
	}
	return seller, nil
}

func (s *SellerService) ListProducts(ctx context.Context, userID int64) ([]*models.Product, error) {
	seller, err := s.approvedSeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.sellers.ListProducts(ctx, seller.ID)
}

// CreateProduct adds a product under the user's seller profile. Its slug is
// derived from the name and must be unused.
func (s *SellerService) CreateProduct(ctx context.Context, userID int64, in models.ProductInput) (*models.Product, error) {
	seller, err := s.approvedSeller(ctx, userID)
	if err != nil {
		return nil, err
	}

	NormalizeProductInput(&in)
	if err := ValidateProductInput(&in); err != nil {
		return nil, err
	}

	category, err := s.products.GetCategoryBySlug(ctx, in.CategorySlug)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Slug:     Slugify(in.Name),
		Seller:   *seller,
		Category: *category,
		Price:    *in.Price,
		InStock:  models.DefaultInStock,
	}
	applyProductInput(product, &in)

	if err := s.sellers.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewValidationError("name", "a product with this name already exists")
		}
		return nil, err
	}

	s.logger.Info("Seller product created", logging.Fields{
		"seller_id":  seller.ID,
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

// UpdateProduct replaces the editable fields of one of the seller's
// products. A price change moves the previous price to the old price.
func (s *SellerService) UpdateProduct(ctx context.Context, userID int64, slug string, in models.ProductInput) (*models.Product, error) {
	seller, err := s.approvedSeller(ctx, userID)
	if err != nil {
		return nil, err
	}

	NormalizeProductInput(&in)
	if err := ValidateProductInput(&in); err != nil {
		return nil, err
	}

	var product *models.Product
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.sellers.GetProductForUpdate(ctx, slug)
		if err != nil {
			return err
		}
		if current.Seller.ID != seller.ID {
			return errors.ErrForbidden
		}

		category, err := s.products.GetCategoryBySlug(ctx, in.CategorySlug)
		if err != nil {
			return err
		}
		current.Category = *category
		current.SetPrice(*in.Price)
		applyProductInput(current, &in)

		if err := s.sellers.UpdateProduct(ctx, current); err != nil {
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Seller product updated", logging.Fields{
		"seller_id":  seller.ID,
		"product_id": product.ID,
		"price":      product.Price,
	})
	return product, nil
}

// DeleteProduct removes one of the seller's products.
func (s *SellerService) DeleteProduct(ctx context.Context, userID int64, slug string) error {
	seller, err := s.approvedSeller(ctx, userID)
	if err != nil {
		return err
	}

	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if product.Seller.ID != seller.ID {
		return errors.ErrForbidden
	}

	if err := s.sellers.DeleteProduct(ctx, product.ID); err != nil {
		return err
	}

	s.logger.Info("Seller product deleted", logging.Fields{
		"seller_id":  seller.ID,
		"product_id": product.ID,
	})
	return nil
}

// ListOrders returns the orders containing the seller's products, each
// limited to the seller's lines.
func (s *SellerService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	seller, err := s.approvedSeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.orders.ListBySeller(ctx, seller.ID)
}

func applyProductInput(p *models.Product, in *models.ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Sizes = in.Sizes
	p.Colors = in.Colors
	p.ImageURL = in.ImageURL
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
}
