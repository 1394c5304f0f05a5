package services

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
)

// NotificationPublisher accepts lifecycle events for asynchronous delivery.
// Publish never blocks on delivery and never fails the caller.
type NotificationPublisher interface {
	Publish(ctx context.Context, event domain.NotificationEvent)
}
