package domain

import "time"

// NotificationKind names a lifecycle event stakeholders are told about.
type NotificationKind string

const (
	NotifyTaskSubmitted NotificationKind = "task.submitted"
	NotifyTaskApproved  NotificationKind = "task.approved"
	NotifyTaskRejected  NotificationKind = "task.rejected"
)

// NotificationEvent is emitted after a task transition has been committed.
type NotificationEvent struct {
	Kind        NotificationKind `json:"kind"`
	Task        Task             `json:"task"`
	Project     *Project         `json:"project,omitempty"`
	Actor       User             `json:"actor"`
	RecipientID string           `json:"recipientID"`
	Payout      *PayoutBreakdown `json:"payout,omitempty"`
	OccurredAt  time.Time        `json:"occurredAt"`
}
