package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ZeroConfigAssistant/internal/config"
	"ZeroConfigAssistant/pkg/log"
	"ZeroConfigAssistant/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.NewLogger()
	if err := config.LoadEnvFile(); err != nil {
		logger.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.LoadAppConfig(os.Getenv)
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithAppConfig(cfg),
		config.WithValidator(validator),
		config.WithMetrics(metrics.New()),
		config.WithGoogleVerifier(),
		config.WithEnrichmentModel(),
		config.WithResilience(),
		config.WithMiddleware(),
		config.WithScheduler(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		logger.Fatal(err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("Server started on :%s", cfg.AppPort)

	<-sigChan
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
