package service

import (
	"context"
	"strings"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// ReviewService records product reviews. Average ratings are not updated
// here; each write publishes a review.changed event and the rating worker
// recomputes the product's average.
type ReviewService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	events   ReviewEventPublisher
	logger   *logging.LoggerV2
}

func NewReviewService(products repository.ProductRepository, reviews repository.ReviewRepository, events ReviewEventPublisher) *ReviewService {
	return &ReviewService{
		products: products,
		reviews:  reviews,
		events:   events,
		logger:   logging.NewLoggerV2("review-service"),
	}
}

// Create stores the user's review of a product. A user reviews a product at
// most once.
func (s *ReviewService) Create(ctx context.Context, userID int64, req *models.CreateReviewRequest) (*models.Review, error) {
	req.ProductSlug = strings.TrimSpace(req.ProductSlug)
	if err := ValidateCreateReviewRequest(req); err != nil {
		return nil, err
	}

	product, err := s.products.GetBySlug(ctx, req.ProductSlug)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: product.ID,
		Rating:    req.Rating,
		Text:      strings.TrimSpace(req.Text),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewValidationError("product_slug", "you have already reviewed this product")
		}
		return nil, err
	}

	s.logger.Info("Review created", logging.Fields{
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"user_id":    userID,
	})
	s.publish(ctx, review)

	return review, nil
}

// List returns reviews newest first. A non-empty productSlug limits them to
// that product, which must exist.
func (s *ReviewService) List(ctx context.Context, productSlug string) ([]*models.Review, error) {
	var productID int64
	if productSlug = strings.TrimSpace(productSlug); productSlug != "" {
		product, err := s.products.GetBySlug(ctx, productSlug)
		if err != nil {
			return nil, err
		}
		productID = product.ID
	}
	return s.reviews.List(ctx, productID)
}

func (s *ReviewService) Get(ctx context.Context, reviewID int64) (*models.Review, error) {
	return s.reviews.GetByID(ctx, reviewID)
}

// Update changes the rating and text of a review. Only its author may edit
// it, and the reviewed product cannot change.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID int64, req *models.UpdateReviewRequest) (*models.Review, error) {
	if err := ValidateUpdateReviewRequest(req); err != nil {
		return nil, err
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, errors.ErrForbidden
	}

	review.Rating = req.Rating
	review.Text = strings.TrimSpace(req.Text)
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("Review updated", logging.Fields{
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"user_id":    userID,
	})
	s.publish(ctx, review)

	return review, nil
}

// Delete removes a review. Only its author may delete it.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return errors.ErrForbidden
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.logger.Info("Review deleted", logging.Fields{
		"review_id":  reviewID,
		"product_id": review.ProductID,
		"user_id":    userID,
	})
	s.publish(ctx, review)

	return nil
}

func (s *ReviewService) publish(ctx context.Context, review *models.Review) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishReviewChanged(ctx, review); err != nil {
		// Log but don't fail; the rating catches up on the next review.
		s.logger.Error("Failed to publish review changed event", logging.Fields{
			"review_id":  review.ID,
			"product_id": review.ProductID,
			"error":      err.Error(),
		})
	}
}

// RatingService maintains products' average rating.
type RatingService struct {
	products repository.ProductRepository
	logger   *logging.LoggerV2
}

func NewRatingService(products repository.ProductRepository) *RatingService {
	return &RatingService{
		products: products,
		logger:   logging.NewLoggerV2("rating-service"),
	}
}

// Recompute sets the product's average rating from its current reviews,
// or 0 when it has none.
func (s *RatingService) Recompute(ctx context.Context, productID int64) (float64, error) {
	avg, err := s.products.RecomputeRating(ctx, productID)
	if err != nil {
		metrics.RatingRecomputesTotal.WithLabelValues("error").Inc()
		return 0, err
	}

	metrics.RatingRecomputesTotal.WithLabelValues("success").Inc()
	s.logger.Info("Average rating updated", logging.Fields{
		"product_id":     productID,
		"average_rating": avg,
	})
	return avg, nil
}
