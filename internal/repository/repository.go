package repository

import (
	"context"
	stderrors "errors"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = stderrors.New("duplicate record")

// Transactor runs fn inside a database transaction. Repositories called with
// the context passed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProductRepository reads the catalog and maintains derived product fields.
type ProductRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Count(ctx context.Context, filter *models.ProductFilter) (int, error)
	List(ctx context.Context, filter *models.ProductFilter, offset, limit int) ([]*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetSellerBySlug(ctx context.Context, slug string) (*models.Seller, error)
	RecomputeRating(ctx context.Context, productID int64) (float64, error)
}

// CartRepository stores live cart lines.
type CartRepository interface {
	// UpsertLine sets the quantity of the user's line for productID,
	// creating it when absent. created reports which happened.
	UpsertLine(ctx context.Context, userID, productID int64, quantity int) (lineID int64, created bool, err error)
	// DeleteLine removes the user's line for productID; removed is false
	// when there was none.
	DeleteLine(ctx context.Context, userID, productID int64) (removed bool, err error)
	ListLive(ctx context.Context, userID int64) ([]models.CartLine, error)
	// LockLive is ListLive with row locks held until the transaction ends.
	LockLive(ctx context.Context, userID int64) ([]models.CartLine, error)
	// Reparent attaches every live line of the user to orderID.
	Reparent(ctx context.Context, userID, orderID int64) (int64, error)
}

// AddressRepository stores user-owned shipping addresses.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.ShippingAddress, error)
	GetForUser(ctx context.Context, id, userID int64) (*models.ShippingAddress, error)
	Create(ctx context.Context, addr *models.ShippingAddress) error
	Update(ctx context.Context, addr *models.ShippingAddress) error
	Delete(ctx context.Context, id, userID int64) error
}

// OrderRepository stores placed orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByTxRef(ctx context.Context, txRef string) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	ListLines(ctx context.Context, orderID int64) ([]models.OrderLine, error)
	// ListBySeller returns the orders that contain the seller's products,
	// each holding only the seller's lines.
	ListBySeller(ctx context.Context, sellerID int64) ([]*models.Order, error)
}

// SellerRepository manages a seller's own products.
type SellerRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Seller, error)
	ListProducts(ctx context.Context, sellerID int64) ([]*models.Product, error)
	// GetProductForUpdate is GetBySlug with the product row locked until
	// the transaction ends.
	GetProductForUpdate(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, productID int64) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	// List returns reviews newest first, only the product's when productID
	// is non-zero.
	List(ctx context.Context, productID int64) ([]*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
}

// OrderCache caches a user's order history.
type OrderCache interface {
	GetByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	SetByUserID(ctx context.Context, userID int64, orders []*models.Order) error
	InvalidateByUserID(ctx context.Context, userID int64) error
}
