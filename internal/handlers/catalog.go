package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListProducts handles GET /api/v1/shop/products
func (h *Handlers) ListProducts(c *gin.Context) {
	page, err := h.catalog.ListProducts(c.Request.Context(), c.Request.URL.Query(), requestURL(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetProduct handles GET /api/v1/shop/products/:slug
func (h *Handlers) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListCategories handles GET /api/v1/shop/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CategoryProducts handles GET /api/v1/shop/categories/:slug
func (h *Handlers) CategoryProducts(c *gin.Context) {
	category, page, err := h.catalog.ProductsByCategory(c.Request.Context(), c.Param("slug"), c.Request.URL.Query(), requestURL(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"products": page,
	})
}

// SellerProducts handles GET /api/v1/shop/sellers/:slug
func (h *Handlers) SellerProducts(c *gin.Context) {
	seller, page, err := h.catalog.ProductsBySeller(c.Request.Context(), c.Param("slug"), c.Request.URL.Query(), requestURL(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"seller":   seller,
		"products": page,
	})
}
