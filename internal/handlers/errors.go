package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto a status code. Access denials that
// hide existence surface as 404, and store timeouts as 503.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var (
		verrs   *apperrors.ValidationErrors
		denied  *apperrors.AccessDeniedError
		invalid *apperrors.InvalidTransitionError
		appErr  *apperrors.AppError
	)
	// Order matters: typed errors first, then the sentinels they wrap
	switch {
	case errors.As(err, &verrs):
		logger.Warn("Validation error "+action, slog.Any("errors", verrs.Errors))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": verrs.Errors})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	// Includes invalid_id and not_found denials
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.As(err, &denied):
		logger.Warn("Access denied "+action, slog.String("code", denied.Code), slog.String("reason", denied.Reason))
		c.JSON(http.StatusForbidden, gin.H{"error": denied.Reason, "code": denied.Code})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	// Clients read the current status to refresh their view
	case errors.As(err, &invalid):
		logger.Warn("Invalid transition "+action, slog.String("task_id", invalid.TaskID), slog.String("status", invalid.Status))
		c.JSON(http.StatusConflict, gin.H{"error": invalid.Error(), "status": invalid.Status})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &appErr) && appErr.Code == http.StatusServiceUnavailable:
		logger.Error("Store unavailable "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		// Internal details stay in the log
		logger.Error("Failed "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed " + action})
	}
}

// requireActor fetches the acting user loaded by ActorMiddleware, writing a
// 401 when it is missing.
func requireActor(c *gin.Context) (domain.User, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return actor, ok
}

// bindJSON binds the body into req, writing a 400 on failure.
func bindJSON(c *gin.Context, req any, action string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON for "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}
