package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/site_workflow_app/internal/models"
	"github.com/SscSPs/site_workflow_app/internal/utils/mapping"
)

type PgxTaskRepository struct {
	BaseRepository
}

func newPgxTaskRepository(pool *pgxpool.Pool, timeout time.Duration) *PgxTaskRepository {
	return &PgxTaskRepository{BaseRepository: BaseRepository{Pool: pool, Timeout: timeout}}
}

var _ portsrepo.TaskRepositoryFacade = (*PgxTaskRepository)(nil)

const taskColumns = `task_id, project_id, title, status, assigned_to, value, weight_pct, progress, start_date,
		proofs, checklist, submitted_at, submitted_by, approved_at, approved_by, rejected_at, rejected_by,
		rejection_reason, penalty_percent, penalty_reason, version, created_at, created_by, last_updated_at, last_updated_by`

func scanTask(row pgx.Row) (models.Task, error) {
	var m models.Task
	err := row.Scan(
		&m.TaskID, &m.ProjectID, &m.Title, &m.Status, &m.AssignedTo, &m.Value, &m.WeightPct, &m.Progress, &m.StartDate,
		&m.Proofs, &m.Checklist, &m.SubmittedAt, &m.SubmittedBy, &m.ApprovedAt, &m.ApprovedBy, &m.RejectedAt, &m.RejectedBy,
		&m.RejectionReason, &m.PenaltyPercent, &m.PenaltyReason, &m.Version, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTaskRepository) queryTasks(ctx context.Context, what, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, what)
	}
	defer rows.Close()

	ms := []models.Task{}
	for rows.Next() {
		m, err := scanTask(rows)
		if err != nil {
			return nil, mapError(err, "scan task")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, what)
	}
	return mapping.ToDomainTaskSlice(ms), nil
}

func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanTask(r.Pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id = $1;`, taskID))
	if err != nil {
		return nil, mapError(err, "find task "+taskID)
	}
	t := mapping.ToDomainTask(m)
	return &t, nil
}

func (r *PgxTaskRepository) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.queryTasks(ctx, "list tasks of project "+projectID,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at, task_id;`, projectID)
}

// ListUnsettledDoneTasks finds DONE tasks with value that have no ledger rows,
// oldest approval first.
func (r *PgxTaskRepository) ListUnsettledDoneTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.status = 'DONE' AND t.value > 0
		  AND NOT EXISTS (SELECT 1 FROM ledger_entries l WHERE l.task_id = t.task_id)
		ORDER BY COALESCE(t.approved_at, t.last_updated_at), t.task_id
		LIMIT $1;
	`
	return r.queryTasks(ctx, "list unsettled tasks", query, limit)
}

func (r *PgxTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelTask(task)
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);`
	_, err := r.Pool.Exec(ctx, query,
		m.TaskID, m.ProjectID, m.Title, m.Status, m.AssignedTo, m.Value, m.WeightPct, m.Progress, m.StartDate,
		m.Proofs, m.Checklist, m.SubmittedAt, m.SubmittedBy, m.ApprovedAt, m.ApprovedBy, m.RejectedAt, m.RejectedBy,
		m.RejectionReason, m.PenaltyPercent, m.PenaltyReason, m.Version, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(err, "insert task "+m.TaskID)
}

// swapTask writes the mutable lifecycle columns only while the stored row is
// still the one the caller read: same status and same version. The version
// moves on every write, so a reject and resubmit in between is caught even
// though the status is back where it was.
func swapTask(ctx context.Context, tx pgx.Tx, task domain.Task, expected domain.TaskStatus) error {
	m := mapping.ToModelTask(task)
	query := `
		UPDATE tasks SET
			status = $4, progress = $5, proofs = $6, checklist = $7,
			submitted_at = $8, submitted_by = $9, approved_at = $10, approved_by = $11,
			rejected_at = $12, rejected_by = $13, rejection_reason = $14,
			penalty_percent = $15, penalty_reason = $16,
			last_updated_at = $17, last_updated_by = $18,
			version = version + 1
		WHERE task_id = $1 AND status = $2 AND version = $3;
	`
	tag, err := tx.Exec(ctx, query,
		m.TaskID, string(expected), m.Version,
		m.Status, m.Progress, m.Proofs, m.Checklist,
		m.SubmittedAt, m.SubmittedBy, m.ApprovedAt, m.ApprovedBy,
		m.RejectedAt, m.RejectedBy, m.RejectionReason,
		m.PenaltyPercent, m.PenaltyReason,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update task "+m.TaskID)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var (
		current string
		version int64
	)
	err = tx.QueryRow(ctx, `SELECT status, version FROM tasks WHERE task_id = $1;`, m.TaskID).Scan(&current, &version)
	if err != nil {
		return mapError(err, "find task "+m.TaskID)
	}
	if current != string(expected) {
		return apperrors.NewConflictError(fmt.Sprintf("task %s is %s, expected %s", m.TaskID, current, expected))
	}
	return apperrors.NewConflictError(fmt.Sprintf("task %s changed since it was read (version %d, read %d)", m.TaskID, version, m.Version))
}

func (r *PgxTaskRepository) SaveTransition(ctx context.Context, task domain.Task, expected domain.TaskStatus) error {
	return r.SaveApproval(ctx, task, expected, nil)
}

// SaveApproval applies the status swap and the settlement entries in one
// database transaction.
func (r *PgxTaskRepository) SaveApproval(ctx context.Context, task domain.Task, expected domain.TaskStatus, entries []domain.LedgerEntry) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	if err := swapTask(ctx, tx, task, expected); err != nil {
		return err
	}
	if _, err := appendEntries(ctx, tx, entries); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
