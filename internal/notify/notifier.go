// Package notify delivers task lifecycle events to stakeholders after the
// transition that produced them has been committed.
package notify

import (
	"context"
	"log/slog"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
)

// Notifier is a delivery sink.
type Notifier interface {
	Notify(ctx context.Context, event domain.NotificationEvent) error
}

// LogNotifier writes every event to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event domain.NotificationEvent) error {
	attrs := []any{
		slog.String("kind", string(event.Kind)),
		slog.String("task_id", event.Task.TaskID),
		slog.String("task_status", string(event.Task.Status)),
		slog.String("actor_id", event.Actor.UserID),
		slog.String("recipient_id", event.RecipientID),
	}
	if event.Payout != nil {
		attrs = append(attrs, slog.String("final_payable", event.Payout.FinalPayable.StringFixed(2)))
	}
	middleware.GetLoggerFromCtx(ctx).Info("Task notification", attrs...)
	return nil
}

// EventEnqueuer is the analytics client surface PosthogNotifier needs.
type EventEnqueuer interface {
	Enqueue(distinctID string, event string, properties map[string]any) error
}

// PosthogNotifier forwards events to product analytics, keyed by recipient.
type PosthogNotifier struct {
	client EventEnqueuer
}

func NewPosthogNotifier(client EventEnqueuer) *PosthogNotifier {
	return &PosthogNotifier{client: client}
}

func (n *PosthogNotifier) Notify(_ context.Context, event domain.NotificationEvent) error {
	props := map[string]any{
		"task_id":     event.Task.TaskID,
		"project_id":  event.Task.ProjectID,
		"task_status": string(event.Task.Status),
		"actor_id":    event.Actor.UserID,
		"actor_role":  string(event.Actor.Role),
	}
	if event.Project != nil {
		props["project_name"] = event.Project.Name
	}
	if event.Payout != nil {
		props["gross_amount"] = event.Payout.GrossAmount.String()
		props["final_payable"] = event.Payout.FinalPayable.String()
	}
	if event.Task.RejectionReason != nil {
		props["rejection_reason"] = *event.Task.RejectionReason
	}
	return n.client.Enqueue(event.RecipientID, string(event.Kind), props)
}
