package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseViper() *viper.Viper {
	v := viper.New()
	v.Set("PORT", "8080")
	v.Set("STORE_DRIVER", "memory")
	v.Set("STORE_TIMEOUT", "2s")
	v.Set("MIGRATIONS_PATH", "file://migrations")
	v.Set("JWT_SECRET", "0123456789abcdef0123")
	v.Set("RATE_LIMIT", "10-S")
	v.Set("NOTIFICATION_BUFFER", 8)
	v.Set("OTEL_SAMPLE_RATE", 0.5)
	v.Set("SERVICE_NAME", "test")
	v.Set("LOG_LEVEL", "INFO")
	v.Set("LOG_FORMAT", "json")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	return v
}

func TestFromViper_Valid(t *testing.T) {
	cfg, err := fromViper(baseViper())
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestFromViper_InvalidTimeoutFallsBack(t *testing.T) {
	v := baseViper()
	v.Set("STORE_TIMEOUT", "soon")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
}

func TestFromViper_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"unknown store driver", "STORE_DRIVER", "mongo"},
		{"postgres without url", "STORE_DRIVER", "postgres"},
		{"short jwt secret", "JWT_SECRET", "short"},
		{"sample rate above one", "OTEL_SAMPLE_RATE", 1.5},
		{"zero notification buffer", "NOTIFICATION_BUFFER", 0},
		{"bad log level", "LOG_LEVEL", "verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := baseViper()
			v.Set(tt.key, tt.val)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestFromViper_DefaultSecretRejectedInProduction(t *testing.T) {
	v := baseViper()
	v.Set("JWT_SECRET", defaultJWTSecret)
	v.Set("IS_PRODUCTION", true)
	_, err := fromViper(v)
	assert.Error(t, err)
}
