package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// ListAddresses handles GET /api/v1/profiles/shipping-addresses
func (h *Handlers) ListAddresses(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	addrs, err := h.addresses.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, addrs)
}

// CreateAddress handles POST /api/v1/profiles/shipping-addresses
func (h *Handlers) CreateAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in models.ShippingAddressInput
	if !bindJSON(c, &in) {
		return
	}

	addr, err := h.addresses.Create(c.Request.Context(), userID, in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, addr)
}

// GetAddress handles GET /api/v1/profiles/shipping-addresses/:id
func (h *Handlers) GetAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	addr, err := h.addresses.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, addr)
}

// UpdateAddress handles PUT /api/v1/profiles/shipping-addresses/:id
func (h *Handlers) UpdateAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var in models.ShippingAddressInput
	if !bindJSON(c, &in) {
		return
	}

	addr, err := h.addresses.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, addr)
}

// DeleteAddress handles DELETE /api/v1/profiles/shipping-addresses/:id
func (h *Handlers) DeleteAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.addresses.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
