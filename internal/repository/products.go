package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

const productColumns = `
	p.id, p.slug, p.name, p.description, p.price, p.old_price, p.sizes, p.colors,
	p.in_stock, p.image_url, p.average_rating, p.created_at,
	c.id, c.name, c.slug,
	s.id, s.name, s.slug, s.user_id, s.is_approved
`

const productJoins = `
	FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN sellers s ON s.id = p.seller_id
`

// PostgresProductRepository implements ProductRepository using PostgreSQL.
type PostgresProductRepository struct {
	db     *sql.DB
	logger *logging.LoggerV2
}

func NewPostgresProductRepository(db *sql.DB, logger *logging.LoggerV2) *PostgresProductRepository {
	return &PostgresProductRepository{db: db, logger: logger}
}

// GetBySlug retrieves a product with its category and seller.
func (r *PostgresProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	query := "SELECT " + productColumns + productJoins + " WHERE p.slug = $1"

	product, err := scanProduct(conn(ctx, r.db).QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch product", logging.Fields{
			"slug":  slug,
			"error": err.Error(),
		})
		return nil, err
	}
	return product, nil
}

// Count returns the number of products matching filter.
func (r *PostgresProductRepository) Count(ctx context.Context, filter *models.ProductFilter) (int, error) {
	where, args := buildProductWhere(filter)

	var total int
	query := "SELECT COUNT(*) " + productJoins + where
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count products", logging.Fields{"error": err.Error()})
		return 0, err
	}
	return total, nil
}

// List returns one window of the filtered catalog in id order.
func (r *PostgresProductRepository) List(ctx context.Context, filter *models.ProductFilter, offset, limit int) ([]*models.Product, error) {
	where, args := buildProductWhere(filter)
	n := len(args)
	query := "SELECT " + productColumns + productJoins + where +
		fmt.Sprintf(" ORDER BY p.id LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list products", logging.Fields{"error": err.Error()})
		return nil, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *PostgresProductRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, slug FROM categories WHERE slug = $1`, slug,
	).Scan(&c.ID, &c.Name, &c.Slug)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresProductRepository) GetSellerBySlug(ctx context.Context, slug string) (*models.Seller, error) {
	var s models.Seller
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, slug, user_id, is_approved FROM sellers WHERE slug = $1`, slug,
	).Scan(&s.ID, &s.Name, &s.Slug, &s.UserID, &s.Approved)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// RecomputeRating stores the mean review rating on the product, 0 when it
// has no reviews.
func (r *PostgresProductRepository) RecomputeRating(ctx context.Context, productID int64) (float64, error) {
	query := `
		UPDATE products
		SET average_rating = COALESCE(
			(SELECT AVG(rating)::float8 FROM reviews WHERE product_id = $1), 0)
		WHERE id = $1
		RETURNING average_rating
	`

	var rating float64
	err := conn(ctx, r.db).QueryRowContext(ctx, query, productID).Scan(&rating)
	if err == sql.ErrNoRows {
		return 0, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to recompute rating", logging.Fields{
			"product_id": productID,
			"error":      err.Error(),
		})
		return 0, err
	}

	r.logger.Info("Product rating recomputed", logging.Fields{
		"product_id": productID,
		"rating":     rating,
	})
	return rating, nil
}

// buildProductWhere renders filter as a WHERE clause with positional args.
func buildProductWhere(filter *models.ProductFilter) (string, []interface{}) {
	if filter == nil {
		return "", nil
	}

	var conds []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Name != "" {
		add("p.name ILIKE $%d", "%"+escapeLike(filter.Name)+"%")
	}
	if filter.MinPrice != nil {
		add("p.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("p.price <= $%d", *filter.MaxPrice)
	}
	if filter.Size != "" {
		add("$%d = ANY(p.sizes)", filter.Size)
	}
	if filter.Color != "" {
		add("$%d = ANY(p.colors)", filter.Color)
	}
	if filter.CategorySlug != "" {
		add("c.slug = $%d", filter.CategorySlug)
	}
	if filter.SellerSlug != "" {
		add("s.slug = $%d", filter.SellerSlug)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			conds = append(conds, "p.in_stock > 0")
		} else {
			conds = append(conds, "p.in_stock = 0")
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	return scanProductWith(row)
}

// scanProductWith scans leading destinations followed by productColumns.
func scanProductWith(row rowScanner, leading ...interface{}) (*models.Product, error) {
	var p models.Product
	var oldPrice sql.NullFloat64
	var imageURL sql.NullString
	var sizes, colors pq.StringArray

	dest := append(leading,
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.Price, &oldPrice, &sizes, &colors,
		&p.InStock, &imageURL, &p.AverageRating, &p.CreatedAt,
		&p.Category.ID, &p.Category.Name, &p.Category.Slug,
		&p.Seller.ID, &p.Seller.Name, &p.Seller.Slug, &p.Seller.UserID, &p.Seller.Approved,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if oldPrice.Valid {
		v := oldPrice.Float64
		p.OldPrice = &v
	}
	if imageURL.Valid {
		p.ImageURL = imageURL.String
	}
	p.Sizes = []string(sizes)
	p.Colors = []string(colors)
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	return &p, nil
}
