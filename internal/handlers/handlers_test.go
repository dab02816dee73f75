package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

type stubCart struct {
	result   *models.ToggleResult
	lines    []models.CartLine
	err      error
	slug     string
	quantity int
}

func (s *stubCart) Toggle(ctx context.Context, userID int64, slug string, quantity int) (*models.ToggleResult, error) {
	s.slug, s.quantity = slug, quantity
	return s.result, s.err
}

func (s *stubCart) List(ctx context.Context, userID int64) ([]models.CartLine, error) {
	return s.lines, s.err
}

type stubCheckout struct {
	order     *models.Order
	err       error
	addressID int64
}

func (s *stubCheckout) Checkout(ctx context.Context, userID, addressID int64) (*models.Order, error) {
	s.addressID = addressID
	return s.order, s.err
}

type stubCatalog struct {
	page *models.ProductPage
	err  error
	url  *url.URL
}

func (s *stubCatalog) ListProducts(ctx context.Context, query url.Values, requestURL *url.URL) (*models.ProductPage, error) {
	s.url = requestURL
	return s.page, s.err
}

func (s *stubCatalog) ProductsByCategory(ctx context.Context, slug string, query url.Values, requestURL *url.URL) (*models.Category, *models.ProductPage, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return &models.Category{ID: 1, Slug: slug, Name: "Shirts"}, s.page, nil
}

func (s *stubCatalog) ProductsBySeller(ctx context.Context, slug string, query url.Values, requestURL *url.URL) (*models.Seller, *models.ProductPage, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return &models.Seller{ID: 1, Slug: slug, Name: "Acme"}, s.page, nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Product{ID: 1, Slug: slug, Price: 10}, nil
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return []*models.Category{{ID: 1, Slug: "shirts", Name: "Shirts"}}, s.err
}

type stubOrders struct {
	err    error
	userID int64
}

func (s *stubOrders) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	s.userID = userID
	return []*models.Order{{ID: 1, UserID: userID, TxRef: "tx_1"}}, s.err
}

func (s *stubOrders) GetOrderLines(ctx context.Context, userID int64, txRef string) ([]models.OrderLine, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.OrderLine{{ID: 5, OrderID: 1}}, nil
}

type stubAddresses struct {
	err error
	in  models.ShippingAddressInput
	id  int64
}

func (s *stubAddresses) List(ctx context.Context, userID int64) ([]*models.ShippingAddress, error) {
	return []*models.ShippingAddress{}, s.err
}

func (s *stubAddresses) Get(ctx context.Context, userID, id int64) (*models.ShippingAddress, error) {
	s.id = id
	if s.err != nil {
		return nil, s.err
	}
	return &models.ShippingAddress{ID: id, UserID: userID}, nil
}

func (s *stubAddresses) Create(ctx context.Context, userID int64, in models.ShippingAddressInput) (*models.ShippingAddress, error) {
	s.in = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.ShippingAddress{ID: 9, UserID: userID, City: in.City}, nil
}

func (s *stubAddresses) Update(ctx context.Context, userID, id int64, in models.ShippingAddressInput) (*models.ShippingAddress, error) {
	s.id, s.in = id, in
	if s.err != nil {
		return nil, s.err
	}
	return &models.ShippingAddress{ID: id, UserID: userID, City: in.City}, nil
}

func (s *stubAddresses) Delete(ctx context.Context, userID, id int64) error {
	s.id = id
	return s.err
}

type stubReviews struct {
	err         error
	productSlug string
}

func (s *stubReviews) List(ctx context.Context, productSlug string) ([]*models.Review, error) {
	s.productSlug = productSlug
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Review{{ID: 3, Rating: 4}}, nil
}

func (s *stubReviews) Get(ctx context.Context, reviewID int64) (*models.Review, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Review{ID: reviewID, Rating: 4}, nil
}

func (s *stubReviews) Update(ctx context.Context, userID, reviewID int64, req *models.UpdateReviewRequest) (*models.Review, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Review{ID: reviewID, UserID: userID, Rating: req.Rating}, nil
}

func (s *stubReviews) Create(ctx context.Context, userID int64, req *models.CreateReviewRequest) (*models.Review, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Review{ID: 3, UserID: userID, Rating: req.Rating}, nil
}

func (s *stubReviews) Delete(ctx context.Context, userID, reviewID int64) error {
	return s.err
}

type stubSellers struct {
	err  error
	slug string
	in   models.ProductInput
}

func (s *stubSellers) ListProducts(ctx context.Context, userID int64) ([]*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Product{{ID: 1, Slug: "linen-shirt"}}, nil
}

func (s *stubSellers) CreateProduct(ctx context.Context, userID int64, in models.ProductInput) (*models.Product, error) {
	s.in = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.Product{ID: 2, Slug: "linen-shirt", Name: in.Name, Price: *in.Price}, nil
}

func (s *stubSellers) UpdateProduct(ctx context.Context, userID int64, slug string, in models.ProductInput) (*models.Product, error) {
	s.slug, s.in = slug, in
	if s.err != nil {
		return nil, s.err
	}
	old := 30.0
	return &models.Product{ID: 2, Slug: slug, Price: *in.Price, OldPrice: &old}, nil
}

func (s *stubSellers) DeleteProduct(ctx context.Context, userID int64, slug string) error {
	s.slug = slug
	return s.err
}

func (s *stubSellers) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Order{{ID: 1, TxRef: "tx_1"}}, nil
}

type testEnv struct {
	router    *gin.Engine
	cart      *stubCart
	checkout  *stubCheckout
	catalog   *stubCatalog
	orders    *stubOrders
	addresses *stubAddresses
	reviews   *stubReviews
	sellers   *stubSellers
}

// fakeAuth authenticates requests carrying X-Test-User.
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User"); raw != "" {
			id, _ := strconv.ParseInt(raw, 10, 64)
			c.Set(middleware.UserIDKey, id)
		}
		c.Next()
	}
}

func newTestEnv(checks map[string]HealthCheck) *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		cart:      &stubCart{},
		checkout:  &stubCheckout{},
		catalog:   &stubCatalog{page: &models.ProductPage{Results: []*models.Product{}}},
		orders:    &stubOrders{},
		addresses: &stubAddresses{},
		reviews:   &stubReviews{},
		sellers:   &stubSellers{},
	}
	h := NewHandlers(Services{
		Cart:      env.cart,
		Checkout:  env.checkout,
		Catalog:   env.catalog,
		Orders:    env.orders,
		Addresses: env.addresses,
		Reviews:   env.reviews,
		Sellers:   env.sellers,
	}, "1.2.3", checks)

	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/live", h.Live)
	r.GET("/version", h.Version)

	shop := r.Group("/api/v1/shop", fakeAuth())
	shop.GET("/products", h.ListProducts)
	shop.GET("/products/:slug", h.GetProduct)
	shop.GET("/categories", h.ListCategories)
	shop.GET("/categories/:slug", h.CategoryProducts)
	shop.GET("/sellers/:slug", h.SellerProducts)
	shop.GET("/cart", h.GetCart)
	shop.POST("/cart", h.ToggleCart)
	shop.POST("/checkout", h.Checkout)
	shop.GET("/reviews", h.ListReviews)
	shop.POST("/reviews", h.CreateReview)
	shop.GET("/reviews/:id", h.GetReview)
	shop.PUT("/reviews/:id", h.UpdateReview)
	shop.DELETE("/reviews/:id", h.DeleteReview)

	profiles := r.Group("/api/v1/profiles", fakeAuth())
	profiles.GET("/orders", h.ListOrders)
	profiles.GET("/orders/:tx_ref", h.GetOrderLines)
	profiles.GET("/shipping-addresses", h.ListAddresses)
	profiles.POST("/shipping-addresses", h.CreateAddress)
	profiles.GET("/shipping-addresses/:id", h.GetAddress)
	profiles.PUT("/shipping-addresses/:id", h.UpdateAddress)
	profiles.DELETE("/shipping-addresses/:id", h.DeleteAddress)

	sellers := r.Group("/api/v1/sellers", fakeAuth())
	sellers.GET("/products", h.SellerListProducts)
	sellers.POST("/products", h.SellerCreateProduct)
	sellers.PUT("/products/:slug", h.SellerUpdateProduct)
	sellers.DELETE("/products/:slug", h.SellerDeleteProduct)
	sellers.GET("/orders", h.SellerListOrders)

	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, userID int64, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User", strconv.FormatInt(userID, 10))
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, http.MethodGet, "/health", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = env.do(t, http.MethodGet, "/live", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/version", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.2.3", decode(t, w)["version"])
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return stderrors.New("connection refused") }

	env := newTestEnv(map[string]HealthCheck{"postgres": ok, "redis": ok})
	w := env.do(t, http.MethodGet, "/ready", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	env = newTestEnv(map[string]HealthCheck{"postgres": ok, "redis": down})
	w = env.do(t, http.MethodGet, "/ready", 0, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	checks := decode(t, w)["checks"].(map[string]interface{})
	assert.Equal(t, "connection refused", checks["redis"])
	assert.NotContains(t, checks, "postgres")
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", errors.ErrNotFound, http.StatusNotFound, "not found"},
		{"empty cart", errors.ErrEmptyCart, http.StatusNotFound, "no items in cart"},
		{"invalid page", errors.ErrInvalidPage, http.StatusNotFound, "invalid page"},
		{"address", errors.ErrAddressNotFound, http.StatusNotFound, errors.ErrAddressNotFound.Error()},
		{"forbidden", errors.ErrForbidden, http.StatusForbidden, "access is denied"},
		{"validation", errors.NewValidationError("rating", "out of range"), http.StatusBadRequest, "out of range"},
		{"store failure", stderrors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, decode(t, w)["error"])
		})
	}
}

func TestToggleCart(t *testing.T) {
	env := newTestEnv(nil)
	line := &models.CartLine{ID: 4, LineItem: models.LineItem{Quantity: 2}}

	env.cart.result = &models.ToggleResult{Outcome: models.ToggleCreated, Line: line}
	w := env.do(t, http.MethodPost, "/api/v1/shop/cart", 7, gin.H{"slug": "red-shirt", "quantity": 2})
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Item Added To Cart", resp["message"])
	assert.Equal(t, "red-shirt", env.cart.slug)
	assert.Equal(t, 2, env.cart.quantity)

	env.cart.result = &models.ToggleResult{Outcome: models.ToggleUpdated, Line: line}
	w = env.do(t, http.MethodPost, "/api/v1/shop/cart", 7, gin.H{"slug": "red-shirt", "quantity": 3})
	assert.Equal(t, http.StatusOK, w.Code)

	env.cart.result = &models.ToggleResult{Outcome: models.ToggleRemoved}
	w = env.do(t, http.MethodPost, "/api/v1/shop/cart", 7, gin.H{"slug": "red-shirt", "quantity": 0})
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	assert.Equal(t, "Item Removed From Cart", resp["message"])
	assert.Nil(t, resp["item"])
	assert.Equal(t, 0, env.cart.quantity)
}

func TestToggleCart_BadInput(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, http.MethodPost, "/api/v1/shop/cart", 7, gin.H{"slug": "red-shirt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "quantity", decode(t, w)["field"])

	w = env.do(t, http.MethodPost, "/api/v1/shop/cart", 7, "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.cart.err = errors.ErrNotFound
	w = env.do(t, http.MethodPost, "/api/v1/shop/cart", 7, gin.H{"slug": "ghost", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/shop/cart", 0, gin.H{"slug": "red-shirt", "quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCart(t *testing.T) {
	env := newTestEnv(nil)
	env.cart.lines = []models.CartLine{
		{ID: 1, LineItem: models.LineItem{Product: models.Product{Price: 2.5}, Quantity: 2}},
	}

	w := env.do(t, http.MethodGet, "/api/v1/shop/cart", 7, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 5.0, resp["subtotal"])
	assert.Equal(t, 2.0, resp["item_count"])
	assert.Len(t, resp["items"], 1)
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(nil)
	env.checkout.order = &models.Order{ID: 1, TxRef: "tx_1", Status: models.OrderStatusPending}

	w := env.do(t, http.MethodPost, "/api/v1/shop/checkout", 7, gin.H{"shipping_id": 12})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Checkout Successful", resp["message"])
	assert.Equal(t, "tx_1", resp["item"].(map[string]interface{})["tx_ref"])
	assert.Equal(t, int64(12), env.checkout.addressID)

	w = env.do(t, http.MethodPost, "/api/v1/shop/checkout", 7, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.checkout.err = errors.ErrEmptyCart
	w = env.do(t, http.MethodPost, "/api/v1/shop/checkout", 7, gin.H{"shipping_id": 12})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no items in cart", decode(t, w)["error"])
}

func TestListProducts_AbsoluteRequestURL(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, http.MethodGet, "/api/v1/shop/products?page=2&name=shirt", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.catalog.url)
	assert.Equal(t, "http://example.com/api/v1/shop/products?page=2&name=shirt", env.catalog.url.String())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shop/products", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	env.router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "https", env.catalog.url.Scheme)

	env.catalog.err = errors.ErrInvalidPage
	w = env.do(t, http.MethodGet, "/api/v1/shop/products?page=99", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "invalid page", decode(t, w)["error"])
}

func TestCatalogLookups(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, http.MethodGet, "/api/v1/shop/categories/shirts", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w), "products")

	w = env.do(t, http.MethodGet, "/api/v1/shop/sellers/acme", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/shop/products/red-shirt", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "red-shirt", decode(t, w)["slug"])

	env.catalog.err = errors.ErrNotFound
	w = env.do(t, http.MethodGet, "/api/v1/shop/sellers/nobody", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrders(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, http.MethodGet, "/api/v1/profiles/orders", 7, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), env.orders.userID)

	w = env.do(t, http.MethodGet, "/api/v1/profiles/orders/tx_1", 7, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	env.orders.err = errors.ErrNotFound
	w = env.do(t, http.MethodGet, "/api/v1/profiles/orders/tx_other", 7, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddresses(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, http.MethodPost, "/api/v1/profiles/shipping-addresses", 7, gin.H{"city": "Lagos", "zipcode": "100001"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Lagos", env.addresses.in.City)

	w = env.do(t, http.MethodPut, "/api/v1/profiles/shipping-addresses/9", 7, gin.H{"city": "Abuja"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), env.addresses.id)

	w = env.do(t, http.MethodDelete, "/api/v1/profiles/shipping-addresses/9", 7, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/profiles/shipping-addresses/abc", 7, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.addresses.err = errors.NewValidationError("email", "enter a valid email address")
	w = env.do(t, http.MethodPost, "/api/v1/profiles/shipping-addresses", 7, gin.H{"email": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["details"], "email")
}

func TestReviews(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, http.MethodPost, "/api/v1/shop/reviews", 7, gin.H{"product_slug": "red-shirt", "rating": 5})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 5.0, decode(t, w)["rating"])

	w = env.do(t, http.MethodDelete, "/api/v1/shop/reviews/3", 7, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	env.reviews.err = errors.ErrForbidden
	w = env.do(t, http.MethodDelete, "/api/v1/shop/reviews/3", 8, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewReadsAndUpdate(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, http.MethodGet, "/api/v1/shop/reviews?product=red-shirt", 7, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "red-shirt", env.reviews.productSlug)

	w = env.do(t, http.MethodGet, "/api/v1/shop/reviews/3", 7, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode(t, w)["id"])

	w = env.do(t, http.MethodGet, "/api/v1/shop/reviews/abc", 7, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/shop/reviews/3", 7, gin.H{"rating": 2})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, decode(t, w)["rating"])

	w = env.do(t, http.MethodPut, "/api/v1/shop/reviews/3", 0, gin.H{"rating": 2})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.reviews.err = errors.ErrForbidden
	w = env.do(t, http.MethodPut, "/api/v1/shop/reviews/3", 8, gin.H{"rating": 2})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSellerProducts(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, http.MethodGet, "/api/v1/sellers/products", 7, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/sellers/products", 7,
		gin.H{"name": "Linen Shirt", "category_slug": "shirts", "price_current": 30})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "shirts", env.sellers.in.CategorySlug)

	w = env.do(t, http.MethodPut, "/api/v1/sellers/products/linen-shirt", 7,
		gin.H{"name": "Linen Shirt", "category_slug": "shirts", "price_current": 25})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 25.0, resp["price_current"])
	assert.Equal(t, 30.0, resp["price_old"])
	assert.Equal(t, "linen-shirt", env.sellers.slug)

	w = env.do(t, http.MethodDelete, "/api/v1/sellers/products/linen-shirt", 7, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/sellers/orders", 7, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	env.sellers.err = errors.ErrForbidden
	w = env.do(t, http.MethodGet, "/api/v1/sellers/products", 8, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodDelete, "/api/v1/sellers/products/linen-shirt", 8, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
