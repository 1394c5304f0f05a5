package repositories

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
)

// TaskReader defines read operations for task data
type TaskReader interface {
	// FindTaskByID retrieves a specific task by its ID.
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)

	// ListTasksByProject retrieves every task of a project, oldest first.
	ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error)

	// ListUnsettledDoneTasks returns DONE tasks with a positive value and no
	// ledger entries, oldest approval first.
	ListUnsettledDoneTasks(ctx context.Context, limit int) ([]domain.Task, error)
}

// TaskWriter defines write operations for task data.
//
// Status changes are compare-and-swap: the write only applies while the stored
// status still equals expected, and apperrors.ErrConflict is returned otherwise.
type TaskWriter interface {
	// SaveTask persists a new task.
	SaveTask(ctx context.Context, task domain.Task) error

	// SaveTransition stores task if its persisted status is still expected and
	// its persisted version still equals task.Version. The stored version
	// becomes task.Version+1.
	SaveTransition(ctx context.Context, task domain.Task, expected domain.TaskStatus) error

	// SaveApproval stores task and appends entries in one atomic unit, under
	// the same compare-and-swap as SaveTransition.
	SaveApproval(ctx context.Context, task domain.Task, expected domain.TaskStatus, entries []domain.LedgerEntry) error
}

// TaskRepositoryFacade combines all task-related repository interfaces
type TaskRepositoryFacade interface {
	TaskReader
	TaskWriter
}
