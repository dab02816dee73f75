package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

type PostgresReviewRepository struct {
	db     *sql.DB
	logger *logging.LoggerV2
}

func NewPostgresReviewRepository(db *sql.DB, logger *logging.LoggerV2) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db, logger: logger}
}

// Create inserts a review. A user may review a product once; a second
// attempt returns ErrDuplicate.
func (r *PostgresReviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.CreatedAt = time.Now().UTC()

	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO reviews (user_id, product_id, rating, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, review.UserID, review.ProductID, review.Rating, review.Text, review.CreatedAt).Scan(&review.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to create review", logging.Fields{
			"product_id": review.ProductID,
			"error":      err.Error(),
		})
		return err
	}
	return nil
}

func (r *PostgresReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var rv models.Review
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, user_id, product_id, rating, text, created_at FROM reviews WHERE id = $1`, id,
	).Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Text, &rv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *PostgresReviewRepository) List(ctx context.Context, productID int64) ([]*models.Review, error) {
	query := `SELECT id, user_id, product_id, rating, text, created_at FROM reviews`
	var args []interface{}
	if productID != 0 {
		query += ` WHERE product_id = $1`
		args = append(args, productID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list reviews", logging.Fields{"error": err.Error()})
		return nil, err
	}
	defer rows.Close()

	reviews := make([]*models.Review, 0)
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Text, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, &rv)
	}
	return reviews, rows.Err()
}

// Update rewrites a review's rating and text.
func (r *PostgresReviewRepository) Update(ctx context.Context, review *models.Review) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE reviews SET rating = $2, text = $3 WHERE id = $1`,
		review.ID, review.Rating, review.Text)
	if err != nil {
		r.logger.Error("Failed to update review", logging.Fields{
			"review_id": review.ID,
			"error":     err.Error(),
		})
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *PostgresReviewRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
