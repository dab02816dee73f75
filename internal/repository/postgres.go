package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

const orderColumns = `
	id, user_id, tx_ref, status,
	full_name, email, phone, address, city, country, zipcode,
	created_at, updated_at
`

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *logging.LoggerV2
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *logging.LoggerV2) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the order header and sets order.ID. Lines are attached
// separately by re-parenting cart lines. A tx_ref collision returns
// ErrDuplicate without aborting the surrounding transaction, so the caller
// may retry with a fresh reference.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.logger.Debug("Creating new order", logging.Fields{"user_id": order.UserID})

	query := `
		INSERT INTO orders (
			user_id, tx_ref, status,
			full_name, email, phone, address, city, country, zipcode,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (tx_ref) DO NOTHING
		RETURNING id
	`

	s := order.Shipping
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		order.UserID,
		order.TxRef,
		order.Status,
		s.FullName,
		s.Email,
		s.Phone,
		s.Address,
		s.City,
		s.Country,
		s.Zipcode,
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&order.ID)

	if err == sql.ErrNoRows || isUniqueViolation(err) {
		r.logger.Warn("Order reference collision", logging.Fields{"tx_ref": order.TxRef})
		return ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to create order", logging.Fields{
			"user_id": order.UserID,
			"error":   err.Error(),
		})
		return err
	}

	r.logger.Info("Order created successfully", logging.Fields{
		"order_id": order.ID,
		"tx_ref":   order.TxRef,
		"user_id":  order.UserID,
	})

	return nil
}

// GetByTxRef retrieves an order header by its transaction reference.
func (r *PostgresOrderRepository) GetByTxRef(ctx context.Context, txRef string) (*models.Order, error) {
	r.logger.Debug("Fetching order by tx_ref", logging.Fields{"tx_ref": txRef})

	order, err := scanOrder(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tx_ref = $1`, txRef))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch order", logging.Fields{
			"tx_ref": txRef,
			"error":  err.Error(),
		})
		return nil, err
	}
	return order, nil
}

// ListByUser returns the user's orders newest first, each with its lines.
func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	orders, err := r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID,
		" WHERE oi.order_id = ANY($1) ORDER BY oi.id")
	if err != nil {
		return nil, err
	}

	r.logger.Info("Orders listed", logging.Fields{
		"user_id": userID,
		"count":   len(orders),
	})

	return orders, nil
}

// ListBySeller returns the orders containing the seller's products, newest
// first. Each order carries only the seller's own lines.
func (r *PostgresOrderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*models.Order, error) {
	orders, err := r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id IN (
			SELECT oi.order_id FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE p.seller_id = $1 AND oi.order_id IS NOT NULL
		) ORDER BY created_at DESC, id DESC`, sellerID,
		" WHERE oi.order_id = ANY($1) AND p.seller_id = $2 ORDER BY oi.id", sellerID)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Seller orders listed", logging.Fields{
		"seller_id": sellerID,
		"count":     len(orders),
	})

	return orders, nil
}

// listOrders runs orderQuery, then loads the lines of every order found.
// linesWhere takes the order ids as $1, followed by lineArgs.
func (r *PostgresOrderRepository) listOrders(ctx context.Context, orderQuery string, orderArg int64, linesWhere string, lineArgs ...interface{}) ([]*models.Order, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, orderQuery, orderArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	byID := make(map[int64]*models.Order)
	ids := make([]int64, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		order.Items = make([]models.OrderLine, 0)
		orders = append(orders, order)
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	args := append([]interface{}{pq.Array(ids)}, lineArgs...)
	lines, err := r.queryLines(ctx, linesWhere, args...)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if o, ok := byID[line.OrderID]; ok {
			o.Items = append(o.Items, line)
		}
	}
	return orders, nil
}

// ListLines returns the lines of one order.
func (r *PostgresOrderRepository) ListLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	return r.queryLines(ctx, " WHERE oi.order_id = $1 ORDER BY oi.id", orderID)
}

func (r *PostgresOrderRepository) queryLines(ctx context.Context, where string, args ...interface{}) ([]models.OrderLine, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, "SELECT "+lineColumns+lineJoins+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]models.OrderLine, 0)
	for rows.Next() {
		var line models.OrderLine
		var userID int64
		var orderID sql.NullInt64
		if err := scanLine(rows, &line.ID, &userID, &orderID, &line.LineItem); err != nil {
			return nil, err
		}
		line.OrderID = orderID.Int64
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	s := &order.Shipping
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.TxRef,
		&order.Status,
		&s.FullName,
		&s.Email,
		&s.Phone,
		&s.Address,
		&s.City,
		&s.Country,
		&s.Zipcode,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
