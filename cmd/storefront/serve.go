package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/clients"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/observability"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/server"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewLoggerV2("storefront-service")
	logging.Infof("Starting storefront-service %s on port %d", version, cfg.Server.Port)

	shutdownTracing, err := observability.InitTracing(cfg.Tracing, version, logger)
	if err != nil {
		return err
	}

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", logging.Fields{"error": err.Error()})
		return err
	}
	defer db.Close()

	redisClient := repository.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	productRepo := repository.NewPostgresProductRepository(db, logger)
	cartRepo := repository.NewPostgresCartRepository(db, logger)
	addressRepo := repository.NewPostgresAddressRepository(db, logger)
	orderRepo := repository.NewPostgresOrderRepository(db, logger)
	reviewRepo := repository.NewPostgresReviewRepository(db, logger)
	sellerRepo := repository.NewPostgresSellerRepository(db, logger)
	transactor := repository.NewSQLTransactor(db, logger)
	orderCache := repository.NewRedisOrderCache(redisClient, cfg.Redis.TTL, logger)

	notificationClient := clients.NewHTTPNotificationClient(cfg.NotificationService, logger)

	eventPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
	defer eventPublisher.Close()

	checkoutService := service.NewCheckoutService(service.CheckoutDeps{
		Tx:         transactor,
		Cart:       cartRepo,
		Addresses:  addressRepo,
		Orders:     orderRepo,
		OrderCache: orderCache,
		Events:     eventPublisher,
		Notifier:   notificationClient,
	}, cfg.Features)
	ratingService := service.NewRatingService(productRepo)

	h := handlers.NewHandlers(handlers.Services{
		Cart:      service.NewCartService(productRepo, cartRepo),
		Checkout:  checkoutService,
		Catalog:   service.NewCatalogService(productRepo, cfg.Catalog),
		Orders:    service.NewOrderService(orderRepo, orderCache, cfg.Features),
		Addresses: service.NewAddressService(addressRepo),
		Reviews:   service.NewReviewService(productRepo, reviewRepo, eventPublisher),
		Sellers:   service.NewSellerService(transactor, sellerRepo, productRepo, orderRepo),
	}, version, map[string]handlers.HealthCheck{
		"postgres": db.PingContext,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	auth := middleware.NewAuthMiddleware(cfg.Auth, logger)
	srv := server.New(h, auth, cfg)

	ctx, stop := signalContext()
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", logging.Fields{
			"port":                 cfg.Server.Port,
			"enable_order_events":  cfg.Features.EnableOrderEvents,
			"enable_order_caching": cfg.Features.EnableOrderCaching,
			"enable_rating_worker": cfg.Features.EnableRatingWorker,
		})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", logging.Fields{"error": err.Error()})
			return err
		}
		return nil
	})

	var ratingConsumer *events.RatingConsumer
	if cfg.Features.EnableRatingWorker {
		ratingConsumer = events.NewRatingConsumer(cfg.Kafka, ratingService, logger)
		g.Go(func() error {
			if err := ratingConsumer.Start(gctx); err != nil && err != context.Canceled {
				logger.Error("Rating consumer failed", logging.Fields{"error": err.Error()})
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if ratingConsumer != nil {
			ratingConsumer.Stop()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
		}
		return nil
	})

	runErr := g.Wait()

	// In-flight order confirmations finish before their clients go away.
	checkoutService.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("Failed to flush traces", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited")
	logging.Sync()
	return runErr
}
