package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"
)

var ratingWorkerCmd = &cobra.Command{
	Use:   "rating-worker",
	Short: "Consume review events and recompute product ratings",
	Long: `Run the product rating consumer without the HTTP API.

Each review.changed event triggers a recompute of the product's average
rating from its current reviews. Use this when serve runs with
ENABLE_RATING_WORKER=false.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRatingWorker()
	},
}

func runRatingWorker() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewLoggerV2("rating-worker")

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", logging.Fields{"error": err.Error()})
		return err
	}
	defer db.Close()

	ratings := service.NewRatingService(repository.NewPostgresProductRepository(db, logger))
	consumer := events.NewRatingConsumer(cfg.Kafka, ratings, logger)

	ctx, stop := signalContext()
	defer stop()

	go func() {
		<-ctx.Done()
		consumer.Stop()
	}()

	if err := consumer.Start(ctx); err != nil && err != context.Canceled {
		return err
	}

	logger.Info("Rating worker exited")
	logging.Sync()
	return nil
}
