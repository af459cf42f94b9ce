package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/jjenkins/countries/internal/handlers"
	"github.com/jjenkins/countries/internal/metrics"
	"github.com/jjenkins/countries/internal/service"
	"github.com/jjenkins/countries/internal/store"
)

const shutdownTimeout = 10 * time.Second

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the country API server",
	Long:  `Start the REST API serving cached country data, refresh triggers and the summary image.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to run the server on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, logger := mustLoad()
	if port != "" {
		cfg.Port = port
	}

	if cfg.AutoMigrate {
		logger.Info("Applying migrations...")
		if err := store.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
	}

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		logger.Fatalf("Failed to create cache directory: %v", err)
	}

	// Initialize services
	countryStore := store.NewCountryStore(db)
	registry := metrics.NewRegistry()
	refresher, summary := newRefresher(cfg, countryStore, registry, logger)

	app := fiber.New(fiber.Config{
		AppName:      "Country Exchange API",
		ErrorHandler: handlers.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	handlers.Register(app, handlers.Deps{
		Countries:   countryStore,
		Refresher:   refresher,
		SummaryPath: summary.Path(),
		Metrics:     registry.Handler(),
		Logger:      logger,
	})

	if cfg.RefreshSchedule != "" {
		scheduler, err := service.NewScheduler(cfg.RefreshSchedule, refresher, logger)
		if err != nil {
			logger.Fatalf("Failed to start scheduler: %v", err)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.WithField("schedule", cfg.RefreshSchedule).Info("Scheduled refresh enabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	}()

	logger.Infof("Starting server on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
