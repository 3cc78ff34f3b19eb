package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farewatch-service/internal/infrastructure/config"
	"farewatch-service/internal/infrastructure/persistence"
	"farewatch-service/internal/interface/api"
	"farewatch-service/internal/interface/fare"
	"farewatch-service/internal/interface/repository"
	"farewatch-service/internal/usecase"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Farewatch Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for the price ledger
	log.Info("Connecting to MongoDB")
	mongoClient, mongoDB, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up PostgreSQL for flights and notification events
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	flightRepo := repository.NewGormFlightRepository(gormDB)
	notificationRepo := repository.NewGormNotificationRepository(gormDB)
	historyRepo := repository.NewMongoPriceHistoryRepository(mongoDB)
	mailerRepo := repository.NewMailerRepository(cfg.MailerServiceURL, cfg.MailerToken, log)

	appMetrics := metrics.NewMetrics("farewatch")

	// Pick the fare backend
	var source fare.PriceSource
	switch cfg.FareSource {
	case "scraper":
		source = fare.NewScraperSource(cfg.ScraperServiceURL, cfg.ScraperToken, cfg.FetchTimeout, log)
	default:
		seed := cfg.SimulatedSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		source = fare.NewSimulatedSource(seed, 0, 0)
	}
	log.Info("Using fare source", "source", source.Name())

	fetcher := usecase.NewFareFetcher(
		source,
		cfg.RetryAttempts,
		cfg.RetryDelay,
		cfg.FetchTimeout,
		cfg.PriceBandMin,
		cfg.PriceBandMax,
		appMetrics,
		log,
	)
	dispatcher := usecase.NewNotificationDispatcher(notificationRepo, mailerRepo, cfg.AlertRecipient, appMetrics, log)
	monitor := usecase.NewPriceMonitor(
		flightRepo,
		historyRepo,
		fetcher,
		dispatcher,
		cfg.RequestDelay,
		cfg.CheckCooldown,
		cfg.BatchLimit,
		cfg.DecreaseThreshold,
		cfg.IncreaseThreshold,
		appMetrics,
		log,
	)

	// Start the cooldown-driven batch loop in a goroutine
	go func() {
		monitorTicker := time.NewTicker(cfg.MonitorInterval)
		defer monitorTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Monitor loop stopped")
				return
			case <-monitorTicker.C:
				if disabled, err := monitor.SweepCompleted(ctx); err != nil {
					log.Error("Completion sweep failed", "error", err)
				} else if disabled > 0 {
					log.Info("Disabled completed flights", "count", disabled)
				}
				if _, err := monitor.CheckAll(ctx); err != nil {
					log.Error("Batch check failed", "error", err)
				}
			}
		}
	}()

	// Start the unsent-notification retry loop in a goroutine
	go func() {
		retryTicker := time.NewTicker(5 * time.Minute)
		defer retryTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Notification retry loop stopped")
				return
			case <-retryTicker.C:
				delivered, err := dispatcher.RetryUnsent(ctx, cfg.UnsentRetryLimit)
				if err != nil {
					log.Error("Notification retry failed", "error", err)
				} else if delivered > 0 {
					log.Info("Re-delivered notifications", "count", delivered)
				}
			}
		}
	}()

	// Set up HTTP server for the trigger surface and metrics
	handler := api.NewHandler(monitor, flightRepo, historyRepo, cfg.AppVersion, log)
	router := api.NewRouter(handler, cfg.CORSAllowOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Farewatch Service stopped")
}
