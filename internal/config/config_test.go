package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 100000, cfg.KDFIterations)
	assert.Equal(t, 90, cfg.APIKeyDefaultExpiryDays)
	assert.Equal(t, 365, cfg.APIKeyMaxExpiryDays)
	assert.Equal(t, "pqvault", cfg.MetricsNamespace)
	assert.Equal(t, "aes-gcm", cfg.EnvelopeAlgorithm)
	assert.Empty(t, cfg.KMSKeyURI)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KDF_ITERATIONS", "1000")
	t.Setenv("API_KEY_DEFAULT_EXPIRY_DAYS", "30")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("ENVELOPE_ALGORITHM", "chacha20-poly1305")

	cfg := Load()

	assert.Equal(t, 1000, cfg.KDFIterations)
	assert.Equal(t, 30, cfg.APIKeyDefaultExpiryDays)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "chacha20-poly1305", cfg.EnvelopeAlgorithm)
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.logLevel}
		assert.Equal(t, tt.expected, cfg.GetGinMode())
	}
}
