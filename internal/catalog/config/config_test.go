package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("applies defaults when env is empty", func(t *testing.T) {
		t.Setenv("CATALOG_PORT", "")
		t.Setenv("CATALOG_SEED_FILE", "")
		t.Setenv("KAFKA_BROKERS", "")
		t.Setenv("MARKETPLACE_ACCESS_KEY", "")
		t.Setenv("MARKETPLACE_SECRET_KEY", "")
		t.Setenv("MARKETPLACE_PARTNER_TAG", "")
		t.Setenv("MARKETPLACE_REGION", "")

		cfg := LoadConfig()

		assert.Equal(t, "8081", cfg.Port)
		assert.Empty(t, cfg.SeedFile)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.Equal(t, "primefinds-20", cfg.Marketplace.PartnerTag)
		assert.Equal(t, "us-east-1", cfg.Marketplace.Region)
		assert.False(t, cfg.Marketplace.Configured())
	})

	t.Run("reads values from the environment", func(t *testing.T) {
		t.Setenv("CATALOG_PORT", "9090")
		t.Setenv("CATALOG_SEED_FILE", "/tmp/catalog.json")
		t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
		t.Setenv("MARKETPLACE_ACCESS_KEY", "AKIAEXAMPLEKEY12")
		t.Setenv("MARKETPLACE_SECRET_KEY", "verysecretvalue98")

		cfg := LoadConfig()

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "/tmp/catalog.json", cfg.SeedFile)
		assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
		assert.True(t, cfg.Marketplace.Configured())
	})
}

func TestMarketplaceRedaction(t *testing.T) {
	m := MarketplaceConfig{
		AccessKey:  "AKIAEXAMPLEKEY12",
		SecretKey:  "short",
		PartnerTag: "primefinds-20",
		Region:     "us-east-1",
	}

	redacted := m.Redacted()

	assert.Equal(t, "****EY12", redacted.AccessKey)
	assert.Equal(t, "****", redacted.SecretKey)
	assert.Equal(t, "primefinds-20", redacted.PartnerTag)
	assert.Equal(t, "us-east-1", redacted.Region)

	// Original is untouched
	assert.Equal(t, "AKIAEXAMPLEKEY12", m.AccessKey)
}
