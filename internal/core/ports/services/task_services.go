package services

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/dto"
)

// TaskLifecycleSvc drives the task state machine. It is the only way a task's
// status changes.
type TaskLifecycleSvc interface {
	// SubmitTask moves a task to REVIEW once its proofs validate.
	SubmitTask(ctx context.Context, actor domain.User, taskID string, proofs []domain.Proof) (*domain.Task, error)

	// ApproveTask moves a REVIEW task to DONE and settles it.
	ApproveTask(ctx context.Context, actor domain.User, taskID string, req dto.ApproveTaskRequest) (*domain.ApprovalResult, error)

	// RejectTask moves a REVIEW task to REJECTED with a reason.
	RejectTask(ctx context.Context, actor domain.User, taskID string, reason string) (*domain.Task, error)

	// ReconcileSettlements settles DONE tasks that were committed without
	// ledger entries.
	ReconcileSettlements(ctx context.Context, limit int) (*dto.ReconcileSummary, error)
}

// TaskReaderSvc defines read operations for task data
type TaskReaderSvc interface {
	GetTask(ctx context.Context, actor domain.User, taskID string) (*domain.Task, error)
	ListProjectTasks(ctx context.Context, actor domain.User, projectID string) ([]domain.Task, error)
}

// TaskWriterSvc defines write operations for task data
type TaskWriterSvc interface {
	CreateTask(ctx context.Context, actor domain.User, projectID string, req dto.CreateTaskRequest) (*domain.Task, error)
}

// TaskSvcFacade combines all task-related service interfaces
type TaskSvcFacade interface {
	TaskLifecycleSvc
	TaskReaderSvc
	TaskWriterSvc
}
