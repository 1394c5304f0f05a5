package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/site_workflow_app/internal/core/services"
	"github.com/SscSPs/site_workflow_app/internal/handlers"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
	"github.com/SscSPs/site_workflow_app/internal/notify"
	"github.com/SscSPs/site_workflow_app/internal/platform/config"
	"github.com/SscSPs/site_workflow_app/internal/platform/telemetry"
	"github.com/SscSPs/site_workflow_app/internal/utils"
)

const shutdownTimeout = 15 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("skip-migrations", false, "Do not apply pending migrations on start")
	serveCmd.Flags().String("seed", "", "JSON fixture to load before serving")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	skipMigrations, _ := cmd.Flags().GetBool("skip-migrations")
	seedPath, _ := cmd.Flags().GetString("seed")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.NewTelemetry(ctx, telemetry.Options{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		Insecure:    cfg.OTelInsecure,
		SampleRate:  cfg.OTelSampleRate,
		ServiceName: cfg.ServiceName,
		Environment: environment(cfg),
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	repos, closeStore, err := openStore(ctx, cfg, logger, !skipMigrations)
	if err != nil {
		return err
	}
	defer closeStore()

	if seedPath != "" {
		if err := seedFromFile(ctx, repos, seedPath, logger); err != nil {
			return err
		}
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	sinks := []notify.Notifier{notify.LogNotifier{}}
	if posthogClient.IsInitialized() {
		sinks = append(sinks, notify.NewPosthogNotifier(posthogClient))
	}
	dispatcher := notify.NewDispatcher(logger, cfg.NotificationBuffer, sinks...)

	limiterInstance, closeLimiter, err := middleware.NewLimiter(ctx, cfg.RateLimit, cfg.RedisURL, logger)
	if err != nil {
		return err
	}

	router, err := handlers.NewRouter(cfg, logger, handlers.Dependencies{
		Services: services.NewServiceContainer(repos, dispatcher),
		Users:    repos.UserRepo,
		Health:   repos.Health,
		Limiter:  limiterInstance,
		Posthog:  posthogClient,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	// Stop accepting requests before draining the notification queue, so no
	// event is published into a closed dispatcher.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("Notification queue not fully drained", slog.String("error", err.Error()))
	}
	posthogClient.Close()
	if err := closeLimiter(); err != nil {
		logger.Warn("Failed to close limiter store", slog.String("error", err.Error()))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
	return nil
}

func environment(cfg *config.Config) string {
	if cfg.IsProduction {
		return "production"
	}
	return "development"
}
