package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Site Workflow Backend API v1"})
}

// healthHandler answers liveness probes. When checkStore is set it also
// pings the record store.
func healthHandler(health portsrepo.HealthChecker, checkStore bool, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Liveness only
		if !checkStore || health == nil {
			c.String(http.StatusOK, "OK")
			return
		}
		// Bound the ping so a hung database fails the probe instead of stalling it
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		if err := health.Ping(ctx); err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Health check failed", slog.String("error", err.Error()))
			c.String(http.StatusServiceUnavailable, "store unavailable")
			return
		}
		c.String(http.StatusOK, "OK")
	}
}
