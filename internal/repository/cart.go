package repository

import (
	"context"
	"database/sql"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// lineColumns selects an order_items row with its product. It reuses the
// product joins, so callers alias order_items as oi.
const lineColumns = `oi.id, oi.user_id, oi.order_id, oi.quantity, ` + productColumns

const lineJoins = `
	FROM order_items oi
	JOIN products p ON p.id = oi.product_id
	JOIN categories c ON c.id = p.category_id
	JOIN sellers s ON s.id = p.seller_id
`

// PostgresCartRepository stores cart lines as order_items rows whose
// order_id is NULL.
type PostgresCartRepository struct {
	db     *sql.DB
	logger *logging.LoggerV2
}

func NewPostgresCartRepository(db *sql.DB, logger *logging.LoggerV2) *PostgresCartRepository {
	return &PostgresCartRepository{db: db, logger: logger}
}

// UpsertLine relies on the partial unique index on (user_id, product_id)
// WHERE order_id IS NULL. xmax is 0 only for freshly inserted tuples.
func (r *PostgresCartRepository) UpsertLine(ctx context.Context, userID, productID int64, quantity int) (int64, bool, error) {
	query := `
		INSERT INTO order_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, product_id) WHERE order_id IS NULL
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`

	var id int64
	var inserted bool
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID, productID, quantity).Scan(&id, &inserted)
	if err != nil {
		r.logger.Error("Failed to upsert cart line", logging.Fields{
			"user_id":    userID,
			"product_id": productID,
			"error":      err.Error(),
		})
		return 0, false, err
	}
	return id, inserted, nil
}

func (r *PostgresCartRepository) DeleteLine(ctx context.Context, userID, productID int64) (bool, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, `
		DELETE FROM order_items
		WHERE user_id = $1 AND product_id = $2 AND order_id IS NULL
	`, userID, productID)
	if err != nil {
		r.logger.Error("Failed to delete cart line", logging.Fields{
			"user_id":    userID,
			"product_id": productID,
			"error":      err.Error(),
		})
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresCartRepository) ListLive(ctx context.Context, userID int64) ([]models.CartLine, error) {
	return r.listLive(ctx, userID, "")
}

func (r *PostgresCartRepository) LockLive(ctx context.Context, userID int64) ([]models.CartLine, error) {
	return r.listLive(ctx, userID, " FOR UPDATE OF oi")
}

func (r *PostgresCartRepository) listLive(ctx context.Context, userID int64, suffix string) ([]models.CartLine, error) {
	query := "SELECT " + lineColumns + lineJoins +
		" WHERE oi.user_id = $1 AND oi.order_id IS NULL ORDER BY oi.id" + suffix

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]models.CartLine, 0)
	for rows.Next() {
		var line models.CartLine
		var orderID sql.NullInt64
		if err := scanLine(rows, &line.ID, &line.UserID, &orderID, &line.LineItem); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *PostgresCartRepository) Reparent(ctx context.Context, userID, orderID int64) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE order_items
		SET order_id = $1, updated_at = NOW()
		WHERE user_id = $2 AND order_id IS NULL
	`, orderID, userID)
	if err != nil {
		r.logger.Error("Failed to attach cart lines to order", logging.Fields{
			"user_id":  userID,
			"order_id": orderID,
			"error":    err.Error(),
		})
		return 0, err
	}
	return result.RowsAffected()
}

// scanLine reads lineColumns into the given destinations.
func scanLine(row rowScanner, id, userID *int64, orderID *sql.NullInt64, item *models.LineItem) error {
	p, err := scanProductWith(row, id, userID, orderID, &item.Quantity)
	if err != nil {
		return err
	}
	item.Product = *p
	return nil
}
