package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/primefinds/storefront/internal/catalog/config"
	mcpDelivery "github.com/primefinds/storefront/internal/catalog/delivery/mcp"
	"github.com/primefinds/storefront/internal/catalog/domain"
	"github.com/primefinds/storefront/internal/catalog/repository"
	"github.com/primefinds/storefront/internal/catalog/seed"
	"github.com/primefinds/storefront/kafka"
	"github.com/primefinds/storefront/pkg/logger"
)

func main() {
	// Logs go to stderr; stdout carries the MCP protocol framing
	serviceName := getEnv("OTEL_SERVICE_NAME", "catalog-mcp")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	cfg := config.LoadConfig()

	products, err := loadProducts(cfg.SeedFile)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load product dataset")
	}

	repo, err := repository.NewMemoryCatalogRepository(products)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to build catalog")
	}

	// Kafka telemetry is optional
	var telemetry mcpDelivery.TelemetryPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to connect Kafka publisher, telemetry disabled")
		} else {
			defer publisher.Close()
			telemetry = publisher
		}
	}

	server := mcpDelivery.NewServer(repo, telemetry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Logger.Info().
		Int("products", len(products)).
		Msg("Catalog MCP server started on stdio")

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Logger.Fatal().Err(err).Msg("MCP server exited")
	}
}

func loadProducts(seedFile string) ([]domain.Product, error) {
	if seedFile != "" {
		return seed.LoadFile(seedFile)
	}
	return seed.Load()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
