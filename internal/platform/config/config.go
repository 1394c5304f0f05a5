package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string        `validate:"required_if=StoreDriver postgres"`
	Port           string        `validate:"required,numeric"`
	IsProduction   bool          `validate:"-"`
	EnableDBCheck  bool          `validate:"-"`
	StoreDriver    string        `validate:"oneof=postgres memory"`
	StoreTimeout   time.Duration `validate:"gt=0"`
	MigrationsPath string        `validate:"required"`

	JWTSecret string `validate:"required,min=16"`
	JWTIssuer string

	RateLimit          string `validate:"required"`
	RedisURL           string `validate:"omitempty,url"`
	CORSAllowedOrigins []string

	PosthogAPIKey      string
	PosthogEndpoint    string `validate:"omitempty,url"`
	NotificationBuffer int    `validate:"gte=1"`

	OTelEnabled    bool
	OTelEndpoint   string  `validate:"required_if=OTelEnabled true"`
	OTelInsecure   bool    `validate:"-"`
	OTelSampleRate float64 `validate:"gte=0,lte=1"`
	ServiceName    string  `validate:"required"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json text"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	v.SetDefault("NOTIFICATION_BUFFER", 256)
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_INSECURE", true)
	v.SetDefault("OTEL_SAMPLE_RATE", 1.0)
	v.SetDefault("SERVICE_NAME", "site-workflow-backend")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:        strings.ToLower(v.GetString("STORE_DRIVER")),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		RedisURL:           v.GetString("REDIS_URL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		PosthogAPIKey:      v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:    v.GetString("POSTHOG_ENDPOINT"),
		NotificationBuffer: v.GetInt("NOTIFICATION_BUFFER"),
		OTelEnabled:        v.GetBool("OTEL_ENABLED"),
		OTelEndpoint:       v.GetString("OTEL_ENDPOINT"),
		OTelInsecure:       v.GetBool("OTEL_INSECURE"),
		OTelSampleRate:     v.GetFloat64("OTEL_SAMPLE_RATE"),
		ServiceName:        v.GetString("SERVICE_NAME"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	timeoutStr := v.GetString("STORE_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 5 * time.Second
		log.Printf("Warning: Invalid value for STORE_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.StoreTimeout = timeout

	if cfg.DatabaseURL == "" && cfg.StoreDriver == StoreDriverPostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.PosthogAPIKey == "" {
		log.Println("Warning: POSTHOG_API_KEY not set. Analytics notifications are disabled.")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
