package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/middleware"
)

// handleError maps service errors onto HTTP responses. Unknown errors are
// logged and reported without detail.
func handleError(c *gin.Context, err error) {
	if v, ok := errors.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   v.Message,
			"field":   v.Field,
			"details": v.Details,
		})
		return
	}

	switch {
	case errors.Is(err, errors.ErrEmptyCart),
		errors.Is(err, errors.ErrInvalidPage),
		errors.Is(err, errors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": errors.ErrForbidden.Error()})
	case errors.Is(err, errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
	default:
		logging.NewLoggerV2("handlers").Error("Request failed", logging.Fields{
			"path":       c.FullPath(),
			"request_id": middleware.RequestIDFromContext(c.Request.Context()),
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindJSON decodes the request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// currentUser returns the authenticated user id, answering 401 when the
// route was reached without authentication.
func currentUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleError(c, errors.ErrUnauthorized)
		return 0, false
	}
	return userID, true
}

// idParam parses a numeric path parameter. Non-numeric ids match nothing.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		handleError(c, errors.ErrNotFound)
		return 0, false
	}
	return id, true
}

// requestURL reconstructs the absolute URL the client used, for
// pagination links.
func requestURL(c *gin.Context) *url.URL {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return &url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
}
