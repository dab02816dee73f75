package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListOrders handles GET /api/v1/profiles/orders
func (h *Handlers) ListOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrderLines handles GET /api/v1/profiles/orders/:tx_ref
func (h *Handlers) GetOrderLines(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	lines, err := h.orders.GetOrderLines(c.Request.Context(), userID, c.Param("tx_ref"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, lines)
}
