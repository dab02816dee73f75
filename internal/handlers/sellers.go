package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// SellerListProducts handles GET /api/v1/sellers/products
func (h *Handlers) SellerListProducts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	products, err := h.sellers.ListProducts(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// SellerCreateProduct handles POST /api/v1/sellers/products
func (h *Handlers) SellerCreateProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in models.ProductInput
	if !bindJSON(c, &in) {
		return
	}

	product, err := h.sellers.CreateProduct(c.Request.Context(), userID, in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// SellerUpdateProduct handles PUT /api/v1/sellers/products/:slug
func (h *Handlers) SellerUpdateProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in models.ProductInput
	if !bindJSON(c, &in) {
		return
	}

	product, err := h.sellers.UpdateProduct(c.Request.Context(), userID, c.Param("slug"), in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// SellerDeleteProduct handles DELETE /api/v1/sellers/products/:slug
func (h *Handlers) SellerDeleteProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.sellers.DeleteProduct(c.Request.Context(), userID, c.Param("slug")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SellerListOrders handles GET /api/v1/sellers/orders
func (h *Handlers) SellerListOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.sellers.ListOrders(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}
