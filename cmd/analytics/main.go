package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/primefinds/storefront/internal/analytics"
	"github.com/primefinds/storefront/kafka"
	"github.com/primefinds/storefront/pkg/logger"
	"github.com/primefinds/storefront/pkg/tracing"
)

const serviceVersion = "1.0.0"

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "analytics-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting analytics service")

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

	brokers := splitList(getEnv("KAFKA_BROKERS", "localhost:9092"))
	groupID := getEnv("ANALYTICS_CONSUMER_GROUP", "analytics-service")
	topics := []string{kafka.TopicProductViewed, kafka.TopicSearchPerformed}

	consumer, err := kafka.NewConsumer(brokers, groupID, topics)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	aggregator := analytics.NewAggregator()
	handler := analytics.NewAnalyticsHandler(aggregator, prometheus.DefaultRegisterer)

	consumer.RegisterProductViewedHandler(handler.HandleProductViewed)
	consumer.RegisterSearchPerformedHandler(handler.HandleSearchPerformed)

	consumeCtx, cancelConsume := context.WithCancel(context.Background())
	defer cancelConsume()

	go func() {
		if err := consumer.Start(consumeCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Logger.Fatal().Err(err).Msg("Kafka consumer stopped")
		}
	}()

	port := getEnv("ANALYTICS_PORT", "8084")
	srv := buildServer(handler, port)

	go func() {
		logger.Logger.Info().
			Str("port", port).
			Str("metrics_endpoint", "/metrics").
			Strs("topics", topics).
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
	cancelConsume()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

func buildServer(handler *analytics.AnalyticsHandler, port string) *http.Server {
	router := mux.NewRouter()

	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:    ":" + port,
		Handler: c.Handler(router),
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
