package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

const addressColumns = `id, user_id, full_name, email, phone, address, city, country, zipcode, created_at, updated_at`

type PostgresAddressRepository struct {
	db     *sql.DB
	logger *logging.LoggerV2
}

func NewPostgresAddressRepository(db *sql.DB, logger *logging.LoggerV2) *PostgresAddressRepository {
	return &PostgresAddressRepository{db: db, logger: logger}
}

func (r *PostgresAddressRepository) ListByUser(ctx context.Context, userID int64) ([]*models.ShippingAddress, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+addressColumns+` FROM shipping_addresses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addrs := make([]*models.ShippingAddress, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}

// GetForUser returns the address only when it belongs to userID.
func (r *PostgresAddressRepository) GetForUser(ctx context.Context, id, userID int64) (*models.ShippingAddress, error) {
	a, err := scanAddress(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+addressColumns+` FROM shipping_addresses WHERE id = $1 AND user_id = $2`, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch shipping address", logging.Fields{
			"address_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return a, nil
}

func (r *PostgresAddressRepository) Create(ctx context.Context, addr *models.ShippingAddress) error {
	now := time.Now().UTC()
	addr.CreatedAt, addr.UpdatedAt = now, now

	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO shipping_addresses (user_id, full_name, email, phone, address, city, country, zipcode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, addr.UserID, addr.FullName, addr.Email, addr.Phone, addr.Address, addr.City, addr.Country, addr.Zipcode,
		addr.CreatedAt, addr.UpdatedAt,
	).Scan(&addr.ID)
	if err != nil {
		r.logger.Error("Failed to create shipping address", logging.Fields{
			"user_id": addr.UserID,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

func (r *PostgresAddressRepository) Update(ctx context.Context, addr *models.ShippingAddress) error {
	addr.UpdatedAt = time.Now().UTC()

	result, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE shipping_addresses
		SET full_name = $3, email = $4, phone = $5, address = $6, city = $7, country = $8, zipcode = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2
	`, addr.ID, addr.UserID, addr.FullName, addr.Email, addr.Phone, addr.Address, addr.City, addr.Country, addr.Zipcode,
		addr.UpdatedAt,
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *PostgresAddressRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM shipping_addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func scanAddress(row rowScanner) (*models.ShippingAddress, error) {
	var a models.ShippingAddress
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Email, &a.Phone, &a.Address,
		&a.City, &a.Country, &a.Zipcode, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
