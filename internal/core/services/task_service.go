package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/SscSPs/site_workflow_app/internal/platform/metrics"
	"github.com/SscSPs/site_workflow_app/internal/platform/telemetry"
	"github.com/SscSPs/site_workflow_app/internal/utils/accounting"
	"github.com/SscSPs/site_workflow_app/internal/utils/proofs"
)

// RejectionReasonRequired is the validation message for a blank rejection reason.
const RejectionReasonRequired = "rejection reason is required"

// progressRefresher recomputes a project's stored progress.
type progressRefresher interface {
	RefreshProgress(ctx context.Context, projectID, updatedBy string) (*domain.ProgressSummary, error)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.NotificationEvent) {}

// taskService drives the task state machine and owns task reads and creation.
type taskService struct {
	BaseService
	src         recordSources
	taskRepo    portsrepo.TaskRepositoryFacade
	projectRepo portsrepo.ProjectReader
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	userRepo    portsrepo.UserReader
	progress    progressRefresher
	publisher   portssvc.NotificationPublisher
}

// TaskServiceOption is a functional option for configuring the task service
type TaskServiceOption func(*taskService)

// WithNotificationPublisher sets where lifecycle events are published.
func WithNotificationPublisher(p portssvc.NotificationPublisher) TaskServiceOption {
	return func(s *taskService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithTaskClock overrides the clock used to stamp transitions.
func WithTaskClock(now func() time.Time) TaskServiceOption {
	return func(s *taskService) {
		s.Now = now
	}
}

// NewTaskService creates the task lifecycle service.
func NewTaskService(repos portsrepo.RepositoryProvider, access portssvc.AccessResolverSvc, progress progressRefresher, options ...TaskServiceOption) portssvc.TaskSvcFacade {
	s := &taskService{
		BaseService: BaseService{Access: access},
		src:         sourcesFrom(repos),
		taskRepo:    repos.TaskRepo,
		projectRepo: repos.ProjectRepo,
		ledgerRepo:  repos.LedgerRepo,
		userRepo:    repos.UserRepo,
		progress:    progress,
		publisher:   noopPublisher{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.TaskSvcFacade = (*taskService)(nil)

// outcomeOf classifies an operation result for metrics.
func outcomeOf(err error) string {
	var denied *apperrors.AccessDeniedError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &denied):
		return "denied"
	case errors.Is(err, apperrors.ErrValidation):
		return "invalid"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// loadForTransition authorizes actor on the task and loads it through the
// request's record lookup, so the access walk and the guard share one fetch.
func (s *taskService) loadForTransition(ctx context.Context, actor domain.User, taskID string) (context.Context, *RecordLookup, *domain.Task, error) {
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceTask, taskID); err != nil {
		return ctx, lookup, nil, err
	}
	task, err := lookup.Task(ctx, taskID)
	if err != nil {
		return ctx, lookup, nil, fmt.Errorf("load task %s: %w", taskID, err)
	}
	return ctx, lookup, task, nil
}

func guardTransition(task *domain.Task, ev domain.TaskEvent) (domain.TaskStatus, error) {
	next, ok := domain.NextStatus(task.Status, ev)
	if !ok {
		return "", &apperrors.InvalidTransitionError{TaskID: task.TaskID, Status: string(task.Status), Event: string(ev)}
	}
	return next, nil
}

// denyVendorReview refuses vendor-family reviewers. Admins and super admins
// skip it like every other access check.
func denyVendorReview(actor domain.User) error {
	if !actor.IsAdmin() && actor.IsVendor() {
		return &apperrors.AccessDeniedError{Code: string(domain.DecisionRoleDenied), Reason: "vendors may not review tasks"}
	}
	return nil
}

// SubmitTask moves a task to REVIEW once its proofs validate.
func (s *taskService) SubmitTask(ctx context.Context, actor domain.User, taskID string, submitted []domain.Proof) (result *domain.Task, err error) {
	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "task.submit", attribute.String("task.id", taskID), attribute.String("actor.id", actor.UserID))
	defer func() {
		telemetry.EndSpan(span, err)
		metrics.ObserveTransition(string(domain.EventSubmit), outcomeOf(err), started)
	}()

	ctx, lookup, task, err := s.loadForTransition(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	next, err := guardTransition(task, domain.EventSubmit)
	if err != nil {
		return nil, err
	}

	if v := proofs.Validate(*task, submitted); !v.Valid {
		return nil, apperrors.NewValidationErrors(v.Errors...)
	}

	now := s.now()
	updated := *task
	updated.Status = next
	updated.Proofs = submitted
	updated.SubmittedAt = &now
	updated.SubmittedBy = &actor.UserID
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor.UserID

	if err = s.taskRepo.SaveTransition(ctx, updated, task.Status); err != nil {
		s.LogError(ctx, err, "Failed to persist submission", slog.String("task_id", taskID))
		return nil, fmt.Errorf("submit task %s: %w", taskID, err)
	}
	updated.Version++

	s.LogInfo(ctx, "Task submitted for review", slog.String("task_id", taskID), slog.Int("proofs", len(submitted)))

	project, perr := lookup.Project(ctx, updated.ProjectID)
	if perr != nil {
		s.LogWarn(ctx, "Project unavailable for submit notification", slog.String("project_id", updated.ProjectID), slog.String("error", perr.Error()))
		project = nil
	}
	recipient := ""
	if project != nil {
		recipient = project.ArchitectID
	}
	s.publish(ctx, domain.NotifyTaskSubmitted, updated, project, actor, recipient, nil, now)

	return &updated, nil
}

// ApproveTask moves a REVIEW task to DONE and writes its settlement in the
// same atomic unit. A settlement that cannot be computed leaves the task DONE
// with SettlementPending set, for ReconcileSettlements to pick up.
func (s *taskService) ApproveTask(ctx context.Context, actor domain.User, taskID string, req dto.ApproveTaskRequest) (result *domain.ApprovalResult, err error) {
	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "task.approve", attribute.String("task.id", taskID), attribute.String("actor.id", actor.UserID))
	defer func() {
		telemetry.EndSpan(span, err)
		metrics.ObserveTransition(string(domain.EventApprove), outcomeOf(err), started)
	}()

	if err = denyVendorReview(actor); err != nil {
		return nil, err
	}
	ctx, lookup, task, err := s.loadForTransition(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	next, err := guardTransition(task, domain.EventApprove)
	if err != nil {
		return nil, err
	}

	penalty := decimal.Zero
	if req.PenaltyPercent != nil {
		penalty = *req.PenaltyPercent
		if penalty.IsNegative() || penalty.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperrors.NewValidationFailedError("penalty percent must be between 0 and 100")
		}
	}
	reason := strings.TrimSpace(req.PenaltyReason)

	now := s.now()
	approved := *task
	approved.Status = next
	approved.Progress = 100
	approved.ApprovedAt = &now
	approved.ApprovedBy = &actor.UserID
	approved.LastUpdatedAt = now
	approved.LastUpdatedBy = actor.UserID
	if !penalty.IsZero() {
		approved.PenaltyPercent = &penalty
		if reason != "" {
			approved.PenaltyReason = &reason
		}
	}

	var (
		payout  *domain.PayoutBreakdown
		entries []domain.LedgerEntry
	)
	project, settleErr := lookup.Project(ctx, approved.ProjectID)
	if settleErr == nil {
		payout, entries, settleErr = s.prepareSettlement(ctx, project, approved, actor.UserID, now)
	}
	pending := false
	if settleErr != nil {
		s.LogError(ctx, settleErr, "Settlement deferred to reconciliation", slog.String("task_id", taskID))
		telemetry.AddSpanEvent(ctx, "settlement.deferred", attribute.String("error", settleErr.Error()))
		payout, entries = nil, nil
		pending = approved.Value.IsPositive()
	}

	if err = s.taskRepo.SaveApproval(ctx, approved, task.Status, entries); err != nil {
		s.LogError(ctx, err, "Failed to persist approval", slog.String("task_id", taskID))
		return nil, fmt.Errorf("approve task %s: %w", taskID, err)
	}
	approved.Version++
	if pending {
		metrics.SettlementsPending.Inc()
	}
	recordEntriesWritten(entries)

	s.LogInfo(ctx, "Task approved",
		slog.String("task_id", taskID),
		slog.Int("ledger_entries", len(entries)),
		slog.Bool("settlement_pending", pending))

	result = &domain.ApprovalResult{
		Task:              approved,
		Payout:            payout,
		LedgerEntries:     entries,
		SettlementPending: pending,
	}
	if result.LedgerEntries == nil {
		result.LedgerEntries = []domain.LedgerEntry{}
	}

	if s.progress != nil {
		summary, perr := s.progress.RefreshProgress(ctx, approved.ProjectID, actor.UserID)
		if perr != nil {
			s.LogError(ctx, perr, "Progress refresh failed after approval", slog.String("project_id", approved.ProjectID))
		} else {
			result.Progress = summary
		}
	}

	s.publish(ctx, domain.NotifyTaskApproved, approved, project, actor, approved.AssignedTo, payout, now)

	return result, nil
}

// RejectTask moves a REVIEW task to REJECTED with a reason.
func (s *taskService) RejectTask(ctx context.Context, actor domain.User, taskID string, reason string) (result *domain.Task, err error) {
	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "task.reject", attribute.String("task.id", taskID), attribute.String("actor.id", actor.UserID))
	defer func() {
		telemetry.EndSpan(span, err)
		metrics.ObserveTransition(string(domain.EventReject), outcomeOf(err), started)
	}()

	if err = denyVendorReview(actor); err != nil {
		return nil, err
	}
	ctx, lookup, task, err := s.loadForTransition(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationErrors(RejectionReasonRequired)
	}
	next, err := guardTransition(task, domain.EventReject)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rejected := *task
	rejected.Status = next
	rejected.RejectionReason = &reason
	rejected.RejectedAt = &now
	rejected.RejectedBy = &actor.UserID
	rejected.LastUpdatedAt = now
	rejected.LastUpdatedBy = actor.UserID

	if err = s.taskRepo.SaveTransition(ctx, rejected, task.Status); err != nil {
		s.LogError(ctx, err, "Failed to persist rejection", slog.String("task_id", taskID))
		return nil, fmt.Errorf("reject task %s: %w", taskID, err)
	}
	rejected.Version++

	s.LogInfo(ctx, "Task rejected", slog.String("task_id", taskID))

	project, perr := lookup.Project(ctx, rejected.ProjectID)
	if perr != nil {
		project = nil
	}
	s.publish(ctx, domain.NotifyTaskRejected, rejected, project, actor, rejected.AssignedTo, nil, now)

	return &rejected, nil
}

// ReconcileSettlements settles DONE tasks that were committed without ledger
// entries. Appends are keyed, so overlapping runs write each entry once.
func (s *taskService) ReconcileSettlements(ctx context.Context, limit int) (summary *dto.ReconcileSummary, err error) {
	ctx, span := telemetry.StartSpan(ctx, "settlement.reconcile", attribute.Int("limit", limit))
	defer func() { telemetry.EndSpan(span, err) }()

	tasks, err := s.taskRepo.ListUnsettledDoneTasks(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list unsettled tasks")
		return nil, fmt.Errorf("list unsettled tasks: %w", err)
	}

	summary = &dto.ReconcileSummary{Scanned: len(tasks), Failed: []string{}}
	touched := map[string]string{}
	for _, task := range tasks {
		approver := task.LastUpdatedBy
		if task.ApprovedBy != nil {
			approver = *task.ApprovedBy
		}
		written, serr := s.reconcileTask(ctx, task, approver)
		if serr != nil {
			s.LogError(ctx, serr, "Reconciliation failed for task", slog.String("task_id", task.TaskID))
			metrics.SettlementsReconciled.WithLabelValues("failed").Inc()
			summary.Failed = append(summary.Failed, task.TaskID)
			continue
		}
		metrics.SettlementsReconciled.WithLabelValues("settled").Inc()
		summary.Settled++
		summary.EntriesWritten += written
		touched[task.ProjectID] = approver
	}

	if s.progress != nil {
		for projectID, by := range touched {
			if _, perr := s.progress.RefreshProgress(ctx, projectID, by); perr != nil {
				s.LogError(ctx, perr, "Progress refresh failed during reconciliation", slog.String("project_id", projectID))
			}
		}
	}

	s.LogInfo(ctx, "Reconciliation pass complete",
		slog.Int("scanned", summary.Scanned),
		slog.Int("settled", summary.Settled),
		slog.Int("entries_written", summary.EntriesWritten),
		slog.Int("failed", len(summary.Failed)))
	return summary, nil
}

func (s *taskService) reconcileTask(ctx context.Context, task domain.Task, approver string) (int, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, task.ProjectID)
	if err != nil {
		return 0, fmt.Errorf("load project %s: %w", task.ProjectID, err)
	}
	at := s.now()
	if task.ApprovedAt != nil {
		at = *task.ApprovedAt
	}
	_, entries, err := s.prepareSettlement(ctx, project, task, approver, at)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	written, err := s.ledgerRepo.AppendLedgerEntries(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("append settlement entries: %w", err)
	}
	if written == len(entries) {
		recordEntriesWritten(entries)
	}
	return written, nil
}

// prepareSettlement computes the payout for a task that is (or is about to
// be) DONE and builds its ledger entries. It writes nothing.
func (s *taskService) prepareSettlement(ctx context.Context, project *domain.Project, task domain.Task, createdBy string, at time.Time) (*domain.PayoutBreakdown, []domain.LedgerEntry, error) {
	siblings, err := s.taskRepo.ListTasksByProject(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("list project tasks: %w", err)
	}
	ledger, err := s.ledgerRepo.ListAllLedgerEntriesByProject(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("list project ledger: %w", err)
	}

	progress := accounting.ComputeProgress(accounting.WithTaskDone(siblings, task.TaskID))
	projectTotal := project.ContractValue
	if !projectTotal.IsPositive() {
		projectTotal = progress.TotalValue
	}
	penalty, reason := task.Penalty()

	breakdown, err := computeBreakdown(accounting.PayoutInput{
		GrossAmount:    task.Value,
		Progress:       progress.Progress,
		PreviousPaid:   decimal.Max(decimal.Zero, accounting.NetPaid(ledger)),
		ProjectTotal:   projectTotal,
		PenaltyPercent: penalty,
		PenaltyReason:  reason,
	})
	if err != nil {
		return nil, nil, err
	}
	if breakdown.ExceedsEntitlement() {
		s.LogWarn(ctx, "Payout exceeds progress-based entitlement",
			slog.String("task_id", task.TaskID),
			slog.String("gross", breakdown.GrossAmount.String()),
			slog.String("payable", breakdown.Payable.String()))
	}

	entries := accounting.BuildSettlementEntries(task, breakdown, createdBy, at)
	return &breakdown, entries, nil
}

// computeBreakdown turns a calculator panic on corrupt stored data into an
// error, so the approval can still commit.
func computeBreakdown(in accounting.PayoutInput) (b domain.PayoutBreakdown, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compute payout: %v", r)
		}
	}()
	return accounting.ComputePayoutBreakdown(in), nil
}

func recordEntriesWritten(entries []domain.LedgerEntry) {
	for _, e := range entries {
		metrics.LedgerEntriesWritten.WithLabelValues(string(e.Category)).Inc()
	}
}

func (s *taskService) publish(ctx context.Context, kind domain.NotificationKind, task domain.Task, project *domain.Project, actor domain.User, recipient string, payout *domain.PayoutBreakdown, at time.Time) {
	if recipient == "" {
		s.LogDebug(ctx, "No recipient for notification", slog.String("kind", string(kind)), slog.String("task_id", task.TaskID))
		return
	}
	s.publisher.Publish(ctx, domain.NotificationEvent{
		Kind:        kind,
		Task:        task,
		Project:     project,
		Actor:       actor,
		RecipientID: recipient,
		Payout:      payout,
		OccurredAt:  at,
	})
}

// GetTask retrieves a task the actor may see.
func (s *taskService) GetTask(ctx context.Context, actor domain.User, taskID string) (*domain.Task, error) {
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceTask, taskID); err != nil {
		return nil, err
	}
	task, err := lookup.Task(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}
	return task, nil
}

// ListProjectTasks lists a project's tasks. Site staff only see the tasks
// assigned to them.
func (s *taskService) ListProjectTasks(ctx context.Context, actor domain.User, projectID string) ([]domain.Task, error) {
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceProject, projectID); err != nil {
		return nil, err
	}
	if _, err := lookup.Project(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	tasks, err := s.taskRepo.ListTasksByProject(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list project tasks", slog.String("project_id", projectID))
		return nil, fmt.Errorf("list tasks of project %s: %w", projectID, err)
	}
	if actor.Role.Category() != domain.CategorySiteStaff {
		return tasks, nil
	}
	mine := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedTo == actor.UserID {
			mine = append(mine, t)
		}
	}
	return mine, nil
}

// CreateTask adds a TODO task to a project.
func (s *taskService) CreateTask(ctx context.Context, actor domain.User, projectID string, req dto.CreateTaskRequest) (*domain.Task, error) {
	if err := requireCategory(actor, "create tasks", domain.CategoryProfessional); err != nil {
		return nil, err
	}
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceProject, projectID); err != nil {
		return nil, err
	}
	if _, err := lookup.Project(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}

	var problems []string
	if strings.TrimSpace(req.Title) == "" {
		problems = append(problems, "title is required")
	}
	if req.Value.IsNegative() {
		problems = append(problems, "value must not be negative")
	}
	if req.WeightPct != nil && (req.WeightPct.IsNegative() || req.WeightPct.GreaterThan(decimal.NewFromInt(100))) {
		problems = append(problems, "weightPct must be between 0 and 100")
	}
	if _, err := s.userRepo.FindUserByID(ctx, req.AssignedTo); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("load assignee: %w", err)
		}
		problems = append(problems, "assignee does not exist")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems...)
	}

	checklist := make([]domain.ChecklistItem, len(req.Checklist))
	for i, item := range req.Checklist {
		checklist[i] = domain.ChecklistItem{Label: item.Label, Completed: item.Completed}
	}
	var start *time.Time
	if req.StartDate != nil {
		t := req.StartDate.UTC()
		start = &t
	}

	task := domain.Task{
		TaskID:      uuid.NewString(),
		ProjectID:   projectID,
		Title:       strings.TrimSpace(req.Title),
		Status:      domain.TaskTodo,
		AssignedTo:  req.AssignedTo,
		Value:       accounting.Round2(req.Value),
		WeightPct:   req.WeightPct,
		StartDate:   start,
		Proofs:      []domain.Proof{},
		Checklist:   checklist,
		AuditFields: domain.NewAuditFields(actor.UserID, s.now()),
	}
	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save task", slog.String("project_id", projectID))
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.LogInfo(ctx, "Task created", slog.String("task_id", task.TaskID), slog.String("project_id", projectID))
	return &task, nil
}
