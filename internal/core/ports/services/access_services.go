package services

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
)

// AccessResolverSvc decides whether an actor may act on a resource. It never
// mutates state.
type AccessResolverSvc interface {
	// Resolve returns the decision for actor on the resource. Denials are
	// decisions; only store failures are returned as errors.
	Resolve(ctx context.Context, actor domain.User, kind domain.ResourceKind, resourceID string) (domain.AccessDecision, error)

	// Authorize is Resolve folded into an error: nil when allowed, an
	// *apperrors.AccessDeniedError when denied.
	Authorize(ctx context.Context, actor domain.User, kind domain.ResourceKind, resourceID string) error
}
