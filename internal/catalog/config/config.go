package config

import (
	"os"
	"strings"
)

// MarketplaceConfig holds the affiliate marketplace credentials. The
// catalog serves a static dataset, so the credentials are carried and
// logged (redacted) but never sent anywhere.
type MarketplaceConfig struct {
	AccessKey  string
	SecretKey  string
	PartnerTag string
	Region     string
}

// Configured reports whether both credential halves are present.
func (m MarketplaceConfig) Configured() bool {
	return m.AccessKey != "" && m.SecretKey != ""
}

// Redacted returns a copy with the credential values masked, safe to log.
func (m MarketplaceConfig) Redacted() MarketplaceConfig {
	return MarketplaceConfig{
		AccessKey:  redact(m.AccessKey),
		SecretKey:  redact(m.SecretKey),
		PartnerTag: m.PartnerTag,
		Region:     m.Region,
	}
}

// Config holds the catalog service configuration
type Config struct {
	Port         string
	SeedFile     string
	KafkaBrokers []string
	Marketplace  MarketplaceConfig
}

// LoadConfig loads the catalog service configuration. An empty SeedFile
// means the embedded dataset; empty KafkaBrokers disables telemetry.
func LoadConfig() *Config {
	return &Config{
		Port:         getEnv("CATALOG_PORT", "8081"),
		SeedFile:     os.Getenv("CATALOG_SEED_FILE"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		Marketplace: MarketplaceConfig{
			AccessKey:  os.Getenv("MARKETPLACE_ACCESS_KEY"),
			SecretKey:  os.Getenv("MARKETPLACE_SECRET_KEY"),
			PartnerTag: getEnv("MARKETPLACE_PARTNER_TAG", "primefinds-20"),
			Region:     getEnv("MARKETPLACE_REGION", "us-east-1"),
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
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

func redact(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
