package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jjenkins/countries/internal/config"
	"github.com/jjenkins/countries/internal/logging"
	"github.com/jjenkins/countries/internal/metrics"
	"github.com/jjenkins/countries/internal/service"
	"github.com/jjenkins/countries/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "countries",
	Short: "Country metadata and exchange rate API",
	Long: `Aggregates country metadata and currency exchange rates from public APIs,
derives an estimated GDP per country, caches the result in PostgreSQL and
serves it over a REST API together with a summary image.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// mustLoad reads the configuration and builds the logger, exiting on failure
func mustLoad() (*config.Config, *logrus.Logger) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	return cfg, logger
}

// newRefresher wires the upstream clients, store and summary generator into
// a Refresher
func newRefresher(cfg *config.Config, countryStore *store.CountryStore, registry *metrics.Registry, logger logrus.FieldLogger) (*service.Refresher, *service.SummaryGenerator) {
	summary := service.NewSummaryGenerator(countryStore, cfg.CacheDir)
	refresher := service.NewRefresher(
		service.NewCountriesClient(cfg.CountriesAPIURL, cfg.UpstreamTimeout),
		service.NewRatesClient(cfg.RatesAPIURL, cfg.UpstreamTimeout),
		countryStore,
		summary,
		service.WithLogger(logger),
		service.WithMetrics(registry),
	)
	return refresher, summary
}
