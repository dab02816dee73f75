package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"
)

type toggleCartRequest struct {
	Slug     string `json:"slug"`
	Quantity *int   `json:"quantity"`
}

type checkoutRequest struct {
	ShippingID *int64 `json:"shipping_id"`
}

// GetCart handles GET /api/v1/shop/cart
func (h *Handlers) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	lines, err := h.cart.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, service.SummarizeCart(lines))
}

// ToggleCart handles POST /api/v1/shop/cart. A quantity of 0 removes the
// product from the cart.
func (h *Handlers) ToggleCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req toggleCartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Quantity == nil {
		handleError(c, errors.NewValidationError("quantity", "this field is required"))
		return
	}

	result, err := h.cart.Toggle(c.Request.Context(), userID, req.Slug, *req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == models.ToggleCreated {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"message": result.Message(),
		"outcome": result.Outcome,
		"item":    result.Line,
	})
}

// Checkout handles POST /api/v1/shop/checkout
func (h *Handlers) Checkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ShippingID == nil {
		handleError(c, errors.NewValidationError("shipping_id", "this field is required"))
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), userID, *req.ShippingID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout Successful",
		"item":    order,
		"total":   service.CalculateOrderTotal(order),
	})
}
