package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for a backend service. Instances are
// balanced round-robin by the proxy.
type ServiceConfig struct {
	Name        string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig loads the gateway configuration. Instance lists are
// comma-separated URLs.
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Services: map[string]ServiceConfig{
			"catalog": {
				Name:        "catalog-service",
				Instances:   splitList(getEnv("CATALOG_SERVICE_URLS", "http://localhost:8081")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"analytics": {
				Name:        "analytics-service",
				Instances:   splitList(getEnv("ANALYTICS_SERVICE_URLS", "http://localhost:8084")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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
