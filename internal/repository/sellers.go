package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// PostgresSellerRepository implements SellerRepository using PostgreSQL.
type PostgresSellerRepository struct {
	db     *sql.DB
	logger *logging.LoggerV2
}

func NewPostgresSellerRepository(db *sql.DB, logger *logging.LoggerV2) *PostgresSellerRepository {
	return &PostgresSellerRepository{db: db, logger: logger}
}

// GetByUserID returns the seller profile owned by the user.
func (r *PostgresSellerRepository) GetByUserID(ctx context.Context, userID int64) (*models.Seller, error) {
	var s models.Seller
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, slug, user_id, is_approved FROM sellers WHERE user_id = $1`, userID,
	).Scan(&s.ID, &s.Name, &s.Slug, &s.UserID, &s.Approved)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListProducts returns the seller's products in id order.
func (r *PostgresSellerRepository) ListProducts(ctx context.Context, sellerID int64) ([]*models.Product, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+productColumns+productJoins+" WHERE p.seller_id = $1 ORDER BY p.id", sellerID)
	if err != nil {
		r.logger.Error("Failed to list seller products", logging.Fields{
			"seller_id": sellerID,
			"error":     err.Error(),
		})
		return nil, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresSellerRepository) GetProductForUpdate(ctx context.Context, slug string) (*models.Product, error) {
	query := "SELECT " + productColumns + productJoins + " WHERE p.slug = $1 FOR UPDATE OF p"

	product, err := scanProduct(conn(ctx, r.db).QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// CreateProduct inserts product under product.Seller and product.Category.
// A taken slug returns ErrDuplicate.
func (r *PostgresSellerRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now().UTC()

	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO products (
			seller_id, category_id, name, slug, description, price, old_price,
			sizes, colors, in_stock, image_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12)
		RETURNING id
	`,
		product.Seller.ID,
		product.Category.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.OldPrice,
		pq.Array(product.Sizes),
		pq.Array(product.Colors),
		product.InStock,
		product.ImageURL,
		product.CreatedAt,
	).Scan(&product.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to create product", logging.Fields{
			"seller_id": product.Seller.ID,
			"slug":      product.Slug,
			"error":     err.Error(),
		})
		return err
	}

	r.logger.Info("Product created", logging.Fields{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

// UpdateProduct writes every editable column of product. The slug, seller
// and rating are not changed.
func (r *PostgresSellerRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE products
		SET category_id = $2, name = $3, description = $4, price = $5, old_price = $6,
		    sizes = $7, colors = $8, in_stock = $9, image_url = NULLIF($10, '')
		WHERE id = $1
	`,
		product.ID,
		product.Category.ID,
		product.Name,
		product.Description,
		product.Price,
		product.OldPrice,
		pq.Array(product.Sizes),
		pq.Array(product.Colors),
		product.InStock,
		product.ImageURL,
	)
	if err != nil {
		r.logger.Error("Failed to update product", logging.Fields{
			"product_id": product.ID,
			"error":      err.Error(),
		})
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *PostgresSellerRepository) DeleteProduct(ctx context.Context, productID int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
