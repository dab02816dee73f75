package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// ListReviews handles GET /api/v1/shop/reviews
func (h *Handlers) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.List(c.Request.Context(), c.Query("product"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetReview handles GET /api/v1/shop/reviews/:id
func (h *Handlers) GetReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviews.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// CreateReview handles POST /api/v1/shop/reviews
func (h *Handlers) CreateReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// UpdateReview handles PUT /api/v1/shop/reviews/:id
func (h *Handlers) UpdateReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /api/v1/shop/reviews/:id
func (h *Handlers) DeleteReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
