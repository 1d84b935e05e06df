package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm/logger"

	"customerapi/internal/config"
	"customerapi/internal/database"
	"customerapi/internal/logging"
	"customerapi/internal/middleware"
	"customerapi/internal/repositories"
	"customerapi/internal/services"
	"customerapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logging.NewLogger(cfg.LogLevel, os.Stdout)
	slog.SetDefault(log)

	// --- Store ---
	repo, ping, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("Failed to initialize customer store", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("Error closing customer store", "error", err)
		}
	}()

	if cfg.SeedData {
		if err := database.SeedCustomers(context.Background(), repo, log); err != nil {
			log.Error("Failed to seed customers", "error", err)
		}
	}

	deps := appDeps{Repo: repo, Ping: ping, Logger: log}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQEnabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Logger: log})
		if err != nil {
			log.Error("Failed to initialize RabbitMQ client", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				log.Error("Error closing RabbitMQ client", "error", err)
			}
		}()
		deps.Publisher = mqClient

		if err := mqClient.ConsumeCustomerEvents(services.CustomerEventLogger(log)); err != nil {
			log.Error("Failed to start RabbitMQ consumer", "error", err)
		}
	}

	// --- Rate limiting (optional) ---
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute, log)
		defer deps.RateLimiter.Close()
	}

	app := NewApp(deps)

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Starting server", "addr", cfg.AppPort)
		serverErrors <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Error("Server failed", "error", err)
		}
	case sig := <-quit:
		log.Info("Shutting down server", "signal", sig.String())
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Error("Error during Fiber shutdown", "error", err)
		}
	}

	log.Info("Server gracefully stopped")
}

// openStore returns the customer store selected by cfg.DatabaseDriver along
// with its health check and cleanup functions.
func openStore(cfg *config.Config) (repositories.CustomerRepository, func(context.Context) error, func() error, error) {
	if cfg.DatabaseDriver == "memory" {
		return repositories.NewMemoryCustomerRepository(),
			func(context.Context) error { return nil },
			func() error { return nil },
			nil
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, logger.Warn)
	if err != nil {
		return nil, nil, nil, err
	}
	return repositories.NewGORMCustomerRepository(db),
		func(ctx context.Context) error { return database.Ping(ctx, db) },
		func() error { return database.Close(db) },
		nil
}
