package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jjenkins/countries/internal/metrics"
	"github.com/jjenkins/countries/internal/service"
	"github.com/jjenkins/countries/internal/store"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one refresh cycle",
	Long: `Refresh fetches all countries and the current exchange rates, derives the
estimated GDP for every country, upserts the records into PostgreSQL and
regenerates the summary image.

Examples:
  # Refresh using settings from the environment or .env
  ./countries refresh

  # Use a different database
  DATABASE_URL=postgres://user:pass@db:5432/countries ./countries refresh`,
	Run: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) {
	cfg, logger := mustLoad()

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Received interrupt signal, shutting down...")
		cancel()
	}()

	if cfg.AutoMigrate {
		if err := store.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
	}

	logger.Info("Connecting to database...")
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	refresher, _ := newRefresher(cfg, store.NewCountryStore(db), metrics.NewRegistry(), logger)

	stats, err := refresher.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Refresh cancelled")
			os.Exit(1)
		}
		var ue *service.UpstreamFetchError
		if errors.As(err, &ue) {
			logger.WithField("source", ue.Source).Errorf("External data source unavailable: %v", err)
			os.Exit(1)
		}
		logger.Fatalf("Refresh failed: %v", err)
	}
	refresher.PrintSummary(stats)

	if stats.Failed > 0 || stats.SummaryErr != nil {
		os.Exit(1)
	}
}
