package service

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/pagination"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// CatalogService serves read-only product listings.
type CatalogService struct {
	products repository.ProductRepository
	config   config.CatalogConfig
	logger   *logging.LoggerV2
}

func NewCatalogService(products repository.ProductRepository, cfg config.CatalogConfig) *CatalogService {
	return &CatalogService{
		products: products,
		config:   cfg,
		logger:   logging.NewLoggerV2("catalog-service"),
	}
}

// ListProducts returns one page of products matching the filters in query.
// requestURL is the URL the client asked for; next and previous links are
// built from it by replacing only the page parameter.
func (s *CatalogService) ListProducts(ctx context.Context, query url.Values, requestURL *url.URL) (*models.ProductPage, error) {
	filter, err := ParseProductFilter(query)
	if err != nil {
		return nil, err
	}
	return s.listFiltered(ctx, filter, query, requestURL)
}

// ProductsByCategory lists the products of one category. The category must
// exist; an empty category yields an empty first page.
func (s *CatalogService) ProductsByCategory(ctx context.Context, slug string, query url.Values, requestURL *url.URL) (*models.Category, *models.ProductPage, error) {
	category, err := s.products.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	filter, err := ParseProductFilter(query)
	if err != nil {
		return nil, nil, err
	}
	filter.CategorySlug = category.Slug

	page, err := s.listFiltered(ctx, filter, query, requestURL)
	if err != nil {
		return nil, nil, err
	}
	return category, page, nil
}

// ProductsBySeller lists the products of one seller.
func (s *CatalogService) ProductsBySeller(ctx context.Context, slug string, query url.Values, requestURL *url.URL) (*models.Seller, *models.ProductPage, error) {
	seller, err := s.products.GetSellerBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	filter, err := ParseProductFilter(query)
	if err != nil {
		return nil, nil, err
	}
	filter.SellerSlug = seller.Slug

	page, err := s.listFiltered(ctx, filter, query, requestURL)
	if err != nil {
		return nil, nil, err
	}
	return seller, page, nil
}

func (s *CatalogService) listFiltered(ctx context.Context, filter *models.ProductFilter, query url.Values, requestURL *url.URL) (*models.ProductPage, error) {
	req := pagination.ParseRequest(query, s.config.DefaultPageSize, s.config.MaxPageSize)

	// Count and slice are separate reads; a concurrent catalog write can
	// shift a page boundary between them.
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := req.Check(total); err != nil {
		return nil, err
	}

	results, err := s.products.List(ctx, filter, req.Offset(), req.Size)
	if err != nil {
		return nil, err
	}

	next, previous := req.Links(requestURL, total)

	s.logger.Debug("Products listed", logging.Fields{
		"page":      req.Page,
		"page_size": req.Size,
		"count":     total,
	})

	return &models.ProductPage{
		Count:    total,
		Next:     next,
		Previous: previous,
		Results:  results,
	}, nil
}

// GetProduct returns the product with the given slug.
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.products.ListCategories(ctx)
}

// ParseProductFilter reads the listing filters from query. Every invalid
// parameter is reported in one ValidationError.
func ParseProductFilter(query url.Values) (*models.ProductFilter, error) {
	fe := errors.FieldErrors{}
	filter := &models.ProductFilter{
		Name:         strings.TrimSpace(query.Get("name")),
		Size:         strings.TrimSpace(query.Get("size")),
		Color:        strings.TrimSpace(query.Get("color")),
		CategorySlug: strings.TrimSpace(query.Get("category")),
		SellerSlug:   strings.TrimSpace(query.Get("seller")),
	}

	filter.MinPrice = parsePrice(fe, "min_price", query.Get("min_price"))
	filter.MaxPrice = parsePrice(fe, "max_price", query.Get("max_price"))
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		fe.Add("max_price", "must be greater than or equal to min_price")
	}

	if raw := strings.TrimSpace(query.Get("in_stock")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			fe.Add("in_stock", "enter true or false")
		} else {
			filter.InStock = &b
		}
	}

	if err := fe.Err(); err != nil {
		return nil, err
	}
	return filter, nil
}

func parsePrice(fe errors.FieldErrors, field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		fe.Add(field, "enter a number")
		return nil
	}
	if v < 0 {
		fe.Add(field, "must not be negative")
		return nil
	}
	return &v
}
