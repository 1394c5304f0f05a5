package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/platform/metrics"
	"github.com/google/uuid"
)

// accessService resolves actors against resources using the capability table.
type accessService struct {
	src recordSources
}

// NewAccessService creates the access resolver over the given repositories.
func NewAccessService(repos portsrepo.RepositoryProvider) portssvc.AccessResolverSvc {
	return &accessService{src: sourcesFrom(repos)}
}

var _ portssvc.AccessResolverSvc = (*accessService)(nil)

// Resolve applies, in order: admin bypass, role hard deny, id validation,
// then the role's graph walk (which performs the existence check).
func (s *accessService) Resolve(ctx context.Context, actor domain.User, kind domain.ResourceKind, resourceID string) (domain.AccessDecision, error) {
	decision, err := s.resolve(ctx, actor, kind, resourceID)
	if err == nil {
		metrics.AccessDecisions.WithLabelValues(string(kind), string(decision.Code)).Inc()
	}
	return decision, err
}

func (s *accessService) resolve(ctx context.Context, actor domain.User, kind domain.ResourceKind, resourceID string) (domain.AccessDecision, error) {
	if actor.IsAdmin() {
		return domain.Allow("admin"), nil
	}

	rule, ok := capabilities[actor.Role.Category()][kind]
	if !ok {
		return domain.Deny(domain.DecisionRoleDenied, fmt.Sprintf("role %q may not access %s resources", actor.Role, kind)), nil
	}

	if _, err := uuid.Parse(resourceID); err != nil {
		return domain.Deny(domain.DecisionInvalidID, fmt.Sprintf("malformed %s id", kind)), nil
	}

	ctx, lookup := withRecordLookup(ctx, s.src)
	return rule(ctx, lookup, actor, resourceID)
}

func (s *accessService) Authorize(ctx context.Context, actor domain.User, kind domain.ResourceKind, resourceID string) error {
	decision, err := s.Resolve(ctx, actor, kind, resourceID)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return &apperrors.AccessDeniedError{Code: string(decision.Code), Reason: decision.Reason}
	}
	return nil
}
