package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/site_workflow_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip if PostHog is not initialized or path is in skip list
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Let the handler run; only outcomes are tracked
		c.Next()

		// Failed requests are not product events
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Actor ID is set by the auth middleware
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			// Anonymous request, nothing to attribute
			return
		}

		// "/api/v1/tasks/:taskID/approve" -> "api_v1_tasks_:taskID_approve"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")

		// Unmatched routes have no full path
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		// Role lets dashboards split approvals by reviewer type
		if actor, ok := GetActorFromContext(c); ok {
			props["role"] = string(actor.Role)
		}
		// Route parameters carry the project and task IDs
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		// Enqueue is buffered by the client; a failure only costs the event
		if err := posthogClient.Enqueue(userID, eventName, props); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("Failed to enqueue analytics event")
		}
	}
}
