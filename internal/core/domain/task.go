package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskReview     TaskStatus = "REVIEW"
	TaskDone       TaskStatus = "DONE"
	TaskRejected   TaskStatus = "REJECTED"
)

// TaskEvent is an input to the task state machine.
type TaskEvent string

const (
	EventSubmit  TaskEvent = "submit"
	EventApprove TaskEvent = "approve"
	EventReject  TaskEvent = "reject"
)

type transition struct {
	from []TaskStatus
	to   TaskStatus
}

// taskTransitions is the complete transition table. Any (status, event) pair
// not listed here is invalid.
var taskTransitions = map[TaskEvent]transition{
	EventSubmit:  {from: []TaskStatus{TaskTodo, TaskInProgress, TaskRejected}, to: TaskReview},
	EventApprove: {from: []TaskStatus{TaskReview}, to: TaskDone},
	EventReject:  {from: []TaskStatus{TaskReview}, to: TaskRejected},
}

// NextStatus returns the status reached by applying ev in status from, and
// false when the pair is not in the transition table.
func NextStatus(from TaskStatus, ev TaskEvent) (TaskStatus, bool) {
	t, ok := taskTransitions[ev]
	if !ok {
		return "", false
	}
	for _, s := range t.from {
		if s == from {
			return t.to, true
		}
	}
	return "", false
}

// IsTerminal reports whether no event can leave the status.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskDone
}

// ChecklistItem is one line of a task's completion checklist.
type ChecklistItem struct {
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// Task is a unit of work on a project. It is only mutated through the
// lifecycle service.
type Task struct {
	TaskID          string           `json:"taskID"`
	ProjectID       string           `json:"projectID"`
	Title           string           `json:"title"`
	Status          TaskStatus       `json:"status"`
	AssignedTo      string           `json:"assignedTo"`
	Value           decimal.Decimal  `json:"value"`               // face value paid out on approval
	WeightPct       *decimal.Decimal `json:"weightPct,omitempty"` // contribution to project completion
	Progress        int              `json:"progress"`
	StartDate       *time.Time       `json:"startDate,omitempty"`
	Proofs          []Proof          `json:"proofs"`
	Checklist       []ChecklistItem  `json:"checklist"`
	SubmittedAt     *time.Time       `json:"submittedAt,omitempty"`
	SubmittedBy     *string          `json:"submittedBy,omitempty"`
	ApprovedAt      *time.Time       `json:"approvedAt,omitempty"`
	ApprovedBy      *string          `json:"approvedBy,omitempty"`
	RejectedAt      *time.Time       `json:"rejectedAt,omitempty"`
	RejectedBy      *string          `json:"rejectedBy,omitempty"`
	RejectionReason *string          `json:"rejectionReason,omitempty"`
	PenaltyPercent  *decimal.Decimal `json:"penaltyPercent,omitempty"` // applied at approval, reused by reconciliation
	PenaltyReason   *string          `json:"penaltyReason,omitempty"`
	Version         int64            `json:"version"` // bumped on every lifecycle write
	AuditFields
}

// Weight returns the task's weight percentage, zero when unset.
func (t Task) Weight() decimal.Decimal {
	if t.WeightPct == nil {
		return decimal.Zero
	}
	return *t.WeightPct
}

// Penalty returns the penalty percent and reason recorded at approval.
func (t Task) Penalty() (decimal.Decimal, string) {
	pct, reason := decimal.Zero, ""
	if t.PenaltyPercent != nil {
		pct = *t.PenaltyPercent
	}
	if t.PenaltyReason != nil {
		reason = *t.PenaltyReason
	}
	return pct, reason
}

// ChecklistComplete reports whether the checklist is non-empty and fully ticked.
func (t Task) ChecklistComplete() bool {
	if len(t.Checklist) == 0 {
		return false
	}
	for _, item := range t.Checklist {
		if !item.Completed {
			return false
		}
	}
	return true
}
