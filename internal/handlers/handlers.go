package handlers

import (
	"context"
	"net/url"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// CartAPI is the cart surface used by the handlers.
type CartAPI interface {
	Toggle(ctx context.Context, userID int64, slug string, quantity int) (*models.ToggleResult, error)
	List(ctx context.Context, userID int64) ([]models.CartLine, error)
}

type CheckoutAPI interface {
	Checkout(ctx context.Context, userID, addressID int64) (*models.Order, error)
}

type CatalogAPI interface {
	ListProducts(ctx context.Context, query url.Values, requestURL *url.URL) (*models.ProductPage, error)
	ProductsByCategory(ctx context.Context, slug string, query url.Values, requestURL *url.URL) (*models.Category, *models.ProductPage, error)
	ProductsBySeller(ctx context.Context, slug string, query url.Values, requestURL *url.URL) (*models.Seller, *models.ProductPage, error)
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type OrderAPI interface {
	ListOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	GetOrderLines(ctx context.Context, userID int64, txRef string) ([]models.OrderLine, error)
}

type AddressAPI interface {
	List(ctx context.Context, userID int64) ([]*models.ShippingAddress, error)
	Get(ctx context.Context, userID, id int64) (*models.ShippingAddress, error)
	Create(ctx context.Context, userID int64, in models.ShippingAddressInput) (*models.ShippingAddress, error)
	Update(ctx context.Context, userID, id int64, in models.ShippingAddressInput) (*models.ShippingAddress, error)
	Delete(ctx context.Context, userID, id int64) error
}

type ReviewAPI interface {
	List(ctx context.Context, productSlug string) ([]*models.Review, error)
	Get(ctx context.Context, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, userID int64, req *models.CreateReviewRequest) (*models.Review, error)
	Update(ctx context.Context, userID, reviewID int64, req *models.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, userID, reviewID int64) error
}

// SellerAPI is the product management surface of approved sellers.
type SellerAPI interface {
	ListProducts(ctx context.Context, userID int64) ([]*models.Product, error)
	CreateProduct(ctx context.Context, userID int64, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, userID int64, slug string, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, userID int64, slug string) error
	ListOrders(ctx context.Context, userID int64) ([]*models.Order, error)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Services groups the handler dependencies.
type Services struct {
	Cart      CartAPI
	Checkout  CheckoutAPI
	Catalog   CatalogAPI
	Orders    OrderAPI
	Addresses AddressAPI
	Reviews   ReviewAPI
	Sellers   SellerAPI
}

// Handlers holds all HTTP handlers for the storefront service.
type Handlers struct {
	cart      CartAPI
	checkout  CheckoutAPI
	catalog   CatalogAPI
	orders    OrderAPI
	addresses AddressAPI
	reviews   ReviewAPI
	sellers   SellerAPI
	checks    map[string]HealthCheck
	version   string
	logger    *logging.LoggerV2
}

// NewHandlers creates a new handlers instance. checks are run by /ready.
func NewHandlers(svc Services, version string, checks map[string]HealthCheck) *Handlers {
	return &Handlers{
		cart:      svc.Cart,
		checkout:  svc.Checkout,
		catalog:   svc.Catalog,
		orders:    svc.Orders,
		addresses: svc.Addresses,
		reviews:   svc.Reviews,
		sellers:   svc.Sellers,
		checks:    checks,
		version:   version,
		logger:    logging.NewLoggerV2("handlers"),
	}
}
