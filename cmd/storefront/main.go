package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Acme shop storefront service",
	Long: `The storefront service serves the product catalog, carts, checkout,
order history, shipping addresses and product reviews.

Commands:
  serve          - Run the HTTP API (and the rating worker unless disabled)
  rating-worker  - Run only the product rating consumer`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML file of settings keyed by environment variable name")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ratingWorkerCmd)
}

// loadConfig reads the environment and applies the log settings. It must
// run before any logger is created.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if configFile != "" {
		var err error
		if cfg, err = config.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	if err := logging.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return cfg, nil
}
