package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/site_workflow_app/internal/middleware"
)

func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l := middleware.GetLoggerFromCtx(ctx); l != slog.Default() || fallback == nil {
		return l
	}
	return fallback
}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return middleware.WithLogger(ctx, logger)
}

type sinkPanic struct {
	value any
}

func (p *sinkPanic) Error() string {
	return fmt.Sprintf("notification sink panicked: %v", p.value)
}
