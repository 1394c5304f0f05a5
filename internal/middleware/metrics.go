package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/site_workflow_app/internal/platform/metrics"
	"github.com/SscSPs/site_workflow_app/internal/platform/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

// InstrumentationMiddleware starts a server span per request, continuing any
// trace propagated by the caller, and records request metrics by route.
func InstrumentationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := telemetry.StartSpan(ctx, c.Request.Method+" "+route,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route))
		if traceID := telemetry.TraceIDFromContext(ctx); traceID != "" {
			ctx = WithLogger(ctx, GetLoggerFromCtx(ctx).With("trace_id", traceID))
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		span.End()
		metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(status), start)
	}
}
