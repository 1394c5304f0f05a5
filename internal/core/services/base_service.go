package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Access portssvc.AccessResolverSvc
	Now    func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// now returns the current time in UTC, from the injected clock when present.
func (s *BaseService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// AuthorizeResource resolves actor against the resource and logs denials.
func (s *BaseService) AuthorizeResource(ctx context.Context, actor domain.User, kind domain.ResourceKind, resourceID string) error {
	err := s.Access.Authorize(ctx, actor, kind, resourceID)
	if err == nil {
		return nil
	}
	var denied *apperrors.AccessDeniedError
	if errors.As(err, &denied) {
		s.LogWarn(ctx, "Access denied",
			slog.String("user_id", actor.UserID),
			slog.String("kind", string(kind)),
			slog.String("resource_id", resourceID),
			slog.String("code", denied.Code),
			slog.String("reason", denied.Reason))
		return err
	}
	s.LogError(ctx, err, "Access resolution failed", slog.String("kind", string(kind)), slog.String("resource_id", resourceID))
	return err
}

// denyFinancials rejects roles that may see a project but not its money.
func denyFinancials(actor domain.User) error {
	if actor.Role.Category() == domain.CategorySiteStaff {
		return &apperrors.AccessDeniedError{Code: string(domain.DecisionForbidden), Reason: "site staff may not view project financials"}
	}
	return nil
}

// requireCategory rejects actors outside the given role categories. Admins always pass.
func requireCategory(actor domain.User, action string, allowed ...domain.RoleCategory) error {
	if actor.IsAdmin() {
		return nil
	}
	cat := actor.Role.Category()
	for _, a := range allowed {
		if a == cat {
			return nil
		}
	}
	return &apperrors.AccessDeniedError{Code: string(domain.DecisionRoleDenied), Reason: "role " + string(actor.Role) + " may not " + action}
}
