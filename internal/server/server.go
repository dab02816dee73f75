package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/middleware"
)

type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server
	handlers   *handlers.Handlers
	auth       *middleware.AuthMiddleware
	logger     *logging.LoggerV2
}

func New(h *handlers.Handlers, auth *middleware.AuthMiddleware, cfg *config.Config) *Server {
	router := gin.New()

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		auth:     auth,
		logger:   logging.NewLoggerV2("server"),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	if s.config.Tracing.Enabled {
		s.router.Use(otelgin.Middleware(s.config.Tracing.ServiceName))
	}
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger(logging.NewLoggerV2("http")))
	s.router.Use(metrics.Middleware())
	s.router.Use(corsMiddleware(s.config.Server.AllowedOrigins))
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cors.New(cfg)
}

func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.Health)
	s.router.GET("/ready", h.Ready)
	s.router.GET("/live", h.Live)
	s.router.GET("/version", h.Version)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	shop := s.router.Group("/api/v1/shop")
	{
		shop.GET("/categories", h.ListCategories)
		shop.GET("/categories/:slug", h.CategoryProducts)
		shop.GET("/sellers/:slug", h.SellerProducts)
		shop.GET("/products", h.ListProducts)
		shop.GET("/products/:slug", h.GetProduct)
	}

	authed := s.router.Group("/api/v1/shop", s.auth.RequireAuth())
	{
		authed.GET("/cart", h.GetCart)
		authed.POST("/cart", h.ToggleCart)
		authed.POST("/checkout", h.Checkout)
		authed.GET("/reviews", h.ListReviews)
		authed.POST("/reviews", h.CreateReview)
		authed.GET("/reviews/:id", h.GetReview)
		authed.PUT("/reviews/:id", h.UpdateReview)
		authed.DELETE("/reviews/:id", h.DeleteReview)
	}

	profiles := s.router.Group("/api/v1/profiles", s.auth.RequireAuth())
	{
		profiles.GET("/orders", h.ListOrders)
		profiles.GET("/orders/:tx_ref", h.GetOrderLines)
		profiles.GET("/shipping-addresses", h.ListAddresses)
		profiles.POST("/shipping-addresses", h.CreateAddress)
		profiles.GET("/shipping-addresses/:id", h.GetAddress)
		profiles.PUT("/shipping-addresses/:id", h.UpdateAddress)
		profiles.DELETE("/shipping-addresses/:id", h.DeleteAddress)
	}

	sellers := s.router.Group("/api/v1/sellers", s.auth.RequireAuth())
	{
		sellers.GET("/products", h.SellerListProducts)
		sellers.POST("/products", h.SellerCreateProduct)
		sellers.PUT("/products/:slug", h.SellerUpdateProduct)
		sellers.DELETE("/products/:slug", h.SellerDeleteProduct)
		sellers.GET("/orders", h.SellerListOrders)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting server", logging.Fields{"addr": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
