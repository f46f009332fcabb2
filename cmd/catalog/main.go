package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/primefinds/storefront/internal/catalog/config"
	httpDelivery "github.com/primefinds/storefront/internal/catalog/delivery/http"
	"github.com/primefinds/storefront/internal/catalog/domain"
	"github.com/primefinds/storefront/internal/catalog/repository"
	"github.com/primefinds/storefront/internal/catalog/seed"
	"github.com/primefinds/storefront/kafka"
	"github.com/primefinds/storefront/pkg/logger"
	"github.com/primefinds/storefront/pkg/tracing"
)

const serviceVersion = "1.0.0"

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "catalog-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting catalog service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName, serviceVersion)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	cfg := config.LoadConfig()

	logger.Logger.Info().
		Bool("marketplace_configured", cfg.Marketplace.Configured()).
		Str("marketplace_access_key", cfg.Marketplace.Redacted().AccessKey).
		Str("marketplace_partner_tag", cfg.Marketplace.PartnerTag).
		Str("marketplace_region", cfg.Marketplace.Region).
		Msg("Marketplace configuration loaded")

	// Load the product dataset
	products, err := loadProducts(cfg.SeedFile)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load product dataset")
	}

	memRepo, err := repository.NewMemoryCatalogRepository(products)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to build catalog")
	}
	repo := repository.NewTracingCatalogRepository(memRepo)

	logger.Logger.Info().
		Int("products", len(products)).
		Str("source", seedSource(cfg.SeedFile)).
		Msg("Catalog loaded")

	// Kafka telemetry is optional; the catalog serves traffic without it
	var telemetry httpDelivery.TelemetryPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to connect Kafka publisher, telemetry disabled")
		} else {
			defer publisher.Close()
			telemetry = publisher
		}
	}

	handler := httpDelivery.NewCatalogHandler(repo, telemetry, prometheus.DefaultRegisterer)

	srv := buildServer(handler, cfg.Port)

	go func() {
		logger.Logger.Info().
			Str("port", cfg.Port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/").
			Msg("HTTP server started")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

func buildServer(handler *httpDelivery.CatalogHandler, port string) *http.Server {
	router := mux.NewRouter()
	router.Use(httpDelivery.RequestIDMiddleware)
	router.Use(httpDelivery.LoggingMiddleware)

	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:    ":" + port,
		Handler: otelhttp.NewHandler(c.Handler(router), "catalog-http"),
	}
}

func loadProducts(seedFile string) ([]domain.Product, error) {
	if seedFile != "" {
		return seed.LoadFile(seedFile)
	}
	return seed.Load()
}

func seedSource(seedFile string) string {
	if seedFile != "" {
		return seedFile
	}
	return "embedded"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
