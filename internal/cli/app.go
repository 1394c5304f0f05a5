package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/site_workflow_app/internal/platform/config"
	"github.com/SscSPs/site_workflow_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/site_workflow_app/internal/repositories/memory"
	"github.com/SscSPs/site_workflow_app/pkg/database"
)

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler).With(slog.String("service", cfg.ServiceName))
	slog.SetDefault(logger)
	return logger
}

// bootstrap loads configuration and the logger every command needs.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, newLogger(cfg), nil
}

// openStore selects the record store named by STORE_DRIVER. For postgres it
// applies pending migrations first unless migrate is false. The returned func
// releases the store.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory record store; data is lost on exit")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	if migrate {
		if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.StoreTimeout)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("Database connection pool established")
	return pgsql.NewRepositoryProvider(pool, cfg.StoreTimeout), func() { database.ClosePgxPool(pool) }, nil
}
