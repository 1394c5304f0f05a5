package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/site_workflow_app/internal/core/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/SscSPs/site_workflow_app/internal/repositories/memory"
	"github.com/SscSPs/site_workflow_app/internal/utils/proofs"
)

func byCategory(entries []domain.LedgerEntry) map[domain.LedgerCategory]domain.LedgerEntry {
	out := make(map[domain.LedgerCategory]domain.LedgerEntry, len(entries))
	for _, e := range entries {
		out[e.Category] = e
	}
	return out
}

// --- Submit ---

func TestSubmitTask_ThreePhotosMovesToReview(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	task, err := w.svc.Task.SubmitTask(ctx, w.siteEngineer2, w.todoTask.TaskID, validPhotos(3))
	require.NoError(t, err)
	assert.Equal(t, domain.TaskReview, task.Status)
	require.NotNil(t, task.SubmittedAt)
	assert.Equal(t, clockNow, *task.SubmittedAt)
	assert.Equal(t, w.siteEngineer2.UserID, *task.SubmittedBy)
	assert.Len(t, task.Proofs, 3)

	stored, err := w.store.FindTaskByID(ctx, w.todoTask.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskReview, stored.Status)

	events := w.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.NotifyTaskSubmitted, events[0].Kind)
	assert.Equal(t, w.architect.UserID, events[0].RecipientID)
}

func TestSubmitTask_TwoPhotosFailsCountRule(t *testing.T) {
	w := newWorld(t)

	_, err := w.svc.Task.SubmitTask(context.Background(), w.siteEngineer2, w.todoTask.TaskID, validPhotos(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var verrs *apperrors.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.Errors, proofs.CountRuleMessage)
	assert.Empty(t, w.publisher.Events())
}

func TestSubmitTask_FromReviewOrDoneNamesStatus(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	_, err := w.svc.Task.SubmitTask(ctx, w.siteEngineer, w.reviewTask.TaskID, validPhotos(3))
	var invalid *apperrors.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, err.Error(), string(domain.TaskReview))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = w.svc.Task.ApproveTask(ctx, w.architect, w.reviewTask.TaskID, dto.ApproveTaskRequest{})
	require.NoError(t, err)

	_, err = w.svc.Task.SubmitTask(ctx, w.siteEngineer, w.reviewTask.TaskID, validPhotos(3))
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, string(domain.TaskDone), invalid.Status)
	assert.Contains(t, err.Error(), string(domain.TaskDone))
}

func TestSubmitTask_UnassignedSiteStaffDenied(t *testing.T) {
	w := newWorld(t)

	_, err := w.svc.Task.SubmitTask(context.Background(), w.siteEngineer, w.todoTask.TaskID, validPhotos(3))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

// --- Approve ---

func TestApproveTask_SettlesCascade(t *testing.T) {
	w := newWorld(t)
	w.seedPriorPayout(t, "20000")
	ctx := context.Background()

	res, err := w.svc.Task.ApproveTask(ctx, w.architect, w.reviewTask.TaskID, dto.ApproveTaskRequest{})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskDone, res.Task.Status)
	assert.Equal(t, 100, res.Task.Progress)
	assert.Equal(t, w.architect.UserID, *res.Task.ApprovedBy)
	assert.False(t, res.SettlementPending)

	require.NotNil(t, res.Payout)
	assert.True(t, res.Payout.PlatformFee.Amount.Equal(dec("4000")), res.Payout.PlatformFee.Amount.String())
	assert.True(t, res.Payout.Withheld.Amount.Equal(dec("14400")))
	assert.True(t, res.Payout.FinalPayable.Equal(dec("81600")))
	assert.True(t, res.Payout.Progress.Equal(dec("50")))
	assert.True(t, res.Payout.PreviousPaid.Equal(dec("20000")))
	assert.True(t, res.Payout.Payable.Equal(dec("80000")))

	require.Len(t, res.LedgerEntries, 3)
	entries := byCategory(res.LedgerEntries)
	assert.Equal(t, domain.Credit, entries[domain.CategoryTaskPayout].EntryType)
	assert.True(t, entries[domain.CategoryTaskPayout].Amount.Equal(dec("100000")))
	assert.Equal(t, domain.Debit, entries[domain.CategoryPlatformFee].EntryType)
	assert.Equal(t, domain.Debit, entries[domain.CategoryWithheld].EntryType)
	_, hasPenalty := entries[domain.CategoryPenalty]
	assert.False(t, hasPenalty)

	stored, err := w.store.ListLedgerEntriesByTask(ctx, w.reviewTask.TaskID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	require.NotNil(t, res.Progress)
	assert.True(t, res.Progress.Progress.Equal(dec("50")))
	project, err := w.store.FindProjectByID(ctx, w.project.ProjectID)
	require.NoError(t, err)
	assert.True(t, project.Progress.Equal(dec("50")))

	events := w.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.NotifyTaskApproved, events[0].Kind)
	assert.Equal(t, w.siteEngineer.UserID, events[0].RecipientID)
	assert.NotNil(t, events[0].Payout)
}

func TestApproveTask_WithPenalty(t *testing.T) {
	w := newWorld(t)
	w.seedPriorPayout(t, "20000")

	res, err := w.svc.Task.ApproveTask(context.Background(), w.architect, w.reviewTask.TaskID, dto.ApproveTaskRequest{
		PenaltyPercent: decPtr("5"),
		PenaltyReason:  "  finished late ",
	})
	require.NoError(t, err)

	assert.True(t, res.Payout.Penalty.Amount.Equal(dec("4080")))
	assert.True(t, res.Payout.FinalPayable.Equal(dec("77520")))
	require.Len(t, res.LedgerEntries, 4)
	penalty := byCategory(res.LedgerEntries)[domain.CategoryPenalty]
	assert.Equal(t, "finished late", penalty.Metadata["penaltyReason"])

	require.NotNil(t, res.Task.PenaltyPercent)
	assert.True(t, res.Task.PenaltyPercent.Equal(dec("5")))
}

func TestApproveTask_PenaltyOutOfRange(t *testing.T) {
	w := newWorld(t)

	for _, pct := range []string{"-1", "100.01"} {
		_, err := w.svc.Task.ApproveTask(context.Background(), w.architect, w.reviewTask.TaskID, dto.ApproveTaskRequest{PenaltyPercent: decPtr(pct)})
		assert.ErrorIs(t, err, apperrors.ErrValidation, pct)
	}

	stored, err := w.store.FindTaskByID(context.Background(), w.reviewTask.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskReview, stored.Status)
}

func TestApproveTask_ZeroValueWritesNoEntries(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	res, err := w.svc.Task.ApproveTask(ctx, w.architect, w.zeroTask.TaskID, dto.ApproveTaskRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, res.Task.Status)
	assert.Empty(t, res.LedgerEntries)
	assert.False(t, res.SettlementPending)

	stored, err := w.store.ListLedgerEntriesByTask(ctx, w.zeroTask.TaskID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestApproveTask_VendorDenied(t *testing.T) {
	w := newWorld(t)

	_, err := w.svc.Task.ApproveTask(context.Background(), w.vendor, w.reviewTask.TaskID, dto.ApproveTaskRequest{})
	var denied *apperrors.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, string(domain.DecisionRoleDenied), denied.Code)
}

func TestApproveTask_FromTodoFails(t *testing.T) {
	w := newWorld(t)

	_, err := w.svc.Task.ApproveTask(context.Background(), w.architect, w.todoTask.TaskID, dto.ApproveTaskRequest{})
	var invalid *apperrors.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, string(domain.TaskTodo), invalid.Status)
}

func TestApproveTask_ConcurrentApprovalsSettleOnce(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	const racers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := w.svc.Task.ApproveTask(ctx, w.architect, w.reviewTask.TaskID, dto.ApproveTaskRequest{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, racers-1, conflicts)

	entries, err := w.store.ListLedgerEntriesByTask(ctx, w.reviewTask.TaskID)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "settlement must be written exactly once")
}

// interleavedTasks runs between once, right after the first task read, so
// another writer commits between a reviewer's read and its write.
type interleavedTasks struct {
	*memory.Store
	once    sync.Once
	between func()
}

func (s *interleavedTasks) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.Store.FindTaskByID(ctx, taskID)
	s.once.Do(s.between)
	return task, err
}

func TestApproveTask_RejectAndResubmitAfterReadConflicts(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	taskID := w.reviewTask.TaskID

	tasks := &interleavedTasks{Store: w.store, between: func() {
		_, err := w.svc.Task.RejectTask(ctx, w.architect, taskID, "grout uneven")
		require.NoError(t, err)
		_, err = w.svc.Task.SubmitTask(ctx, w.siteEngineer, taskID, validPhotos(4))
		require.NoError(t, err)
	}}
	repos := w.repos
	repos.TaskRepo = tasks
	approver := services.NewServiceContainer(repos, w.publisher, services.WithTaskClock(func() time.Time { return clockNow }))

	_, err := approver.Task.ApproveTask(ctx, w.architect, taskID, dto.ApproveTaskRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := w.store.FindTaskByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskReview, stored.Status)
	assert.Len(t, stored.Proofs, 4, "resubmitted proofs are kept")
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "grout uneven", *stored.RejectionReason)
	require.NotNil(t, stored.SubmittedBy)
	assert.Equal(t, w.siteEngineer.UserID, *stored.SubmittedBy)
	assert.Nil(t, stored.ApprovedAt)
	assert.Equal(t, int64(2), stored.Version)

	entries, err := w.store.ListLedgerEntriesByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// a fresh read approves the resubmission
	result, err := w.svc.Task.ApproveTask(ctx, w.architect, taskID, dto.ApproveTaskRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, result.Task.Status)
	assert.Equal(t, int64(3), result.Task.Version)
}

func TestReviewTask_SuperAdminWithVendorRoleIsAllowed(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	superVendor := newUser(domain.RoleVendor, "Vera Vendor", "vera@example.com")
	superVendor.SuperAdmin = true

	result, err := w.svc.Task.ApproveTask(ctx, superVendor, w.reviewTask.TaskID, dto.ApproveTaskRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, result.Task.Status)

	rejected, err := w.svc.Task.RejectTask(ctx, superVendor, w.zeroTask.TaskID, "wrong area")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskRejected, rejected.Status)

	_, err = w.svc.Task.ApproveTask(ctx, w.vendor, w.todoTask.TaskID, dto.ApproveTaskRequest{})
	var denied *apperrors.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, string(domain.DecisionRoleDenied), denied.Code)
}

// failingLedger wraps the memory store and fails ledger reads, so settlement
// cannot be computed while the task write still succeeds.
type failingLedger struct {
	*memory.Store
}

func (f failingLedger) ListAllLedgerEntriesByProject(context.Context, string) ([]domain.LedgerEntry, error) {
	return nil, errors.New("ledger unavailable")
}

func TestApproveTask_SettlementFailureIsPendingThenReconciled(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	broken := w.repos
	broken.LedgerRepo = failingLedger{w.store}
	svc := services.NewServiceContainer(broken, w.publisher)

	res, err := svc.Task.ApproveTask(ctx, w.architect, w.reviewTask.TaskID, dto.ApproveTaskRequest{PenaltyPercent: decPtr("5")})
	require.NoError(t, err, "approval must not fail because settlement did")
	assert.Equal(t, domain.TaskDone, res.Task.Status)
	assert.Nil(t, res.Payout)
	assert.Empty(t, res.LedgerEntries)
	assert.True(t, res.SettlementPending)

	stored, err := w.store.FindTaskByID(ctx, w.reviewTask.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, stored.Status)

	summary, err := w.svc.Task.ReconcileSettlements(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Scanned)
	assert.Equal(t, 1, summary.Settled)
	assert.Equal(t, 4, summary.EntriesWritten, "penalty recorded at approval is reused")
	assert.Empty(t, summary.Failed)

	again, err := w.svc.Task.ReconcileSettlements(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Scanned)

	entries, err := w.store.ListLedgerEntriesByTask(ctx, w.reviewTask.TaskID)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

// --- Reject ---

func TestRejectTask_BlankReason(t *testing.T) {
	w := newWorld(t)

	for _, reason := range []string{"", "   "} {
		_, err := w.svc.Task.RejectTask(context.Background(), w.architect, w.reviewTask.TaskID, reason)
		require.Error(t, err)
		var verrs *apperrors.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, []string{services.RejectionReasonRequired}, verrs.Errors)
	}
}

func TestRejectTask_FromTodoNamesStatus(t *testing.T) {
	w := newWorld(t)

	_, err := w.svc.Task.RejectTask(context.Background(), w.architect, w.todoTask.TaskID, "late")
	var invalid *apperrors.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, err.Error(), string(domain.TaskTodo))
}

func TestRejectTask_StoresReasonAndAllowsResubmit(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	task, err := w.svc.Task.RejectTask(ctx, w.architect, w.reviewTask.TaskID, "  grout is cracked ")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskRejected, task.Status)
	assert.Equal(t, "grout is cracked", *task.RejectionReason)
	assert.Equal(t, w.architect.UserID, *task.RejectedBy)

	entries, err := w.store.ListLedgerEntriesByTask(ctx, w.reviewTask.TaskID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	events := w.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.NotifyTaskRejected, events[0].Kind)
	assert.Equal(t, w.siteEngineer.UserID, events[0].RecipientID)

	resubmitted, err := w.svc.Task.SubmitTask(ctx, w.siteEngineer, w.reviewTask.TaskID, validPhotos(3))
	require.NoError(t, err)
	assert.Equal(t, domain.TaskReview, resubmitted.Status)
}

// --- Reads and creation ---

func TestListProjectTasks_SiteStaffSeeOwnTasks(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	all, err := w.svc.Task.ListProjectTasks(ctx, w.architect, w.project.ProjectID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := w.svc.Task.ListProjectTasks(ctx, w.siteEngineer, w.project.ProjectID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, task := range mine {
		assert.Equal(t, w.siteEngineer.UserID, task.AssignedTo)
	}

	_, err = w.svc.Task.ListProjectTasks(ctx, w.admin, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateTask(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	task, err := w.svc.Task.CreateTask(ctx, w.architect, w.project.ProjectID, dto.CreateTaskRequest{
		Title:      " Electrical ",
		AssignedTo: w.siteEngineer.UserID,
		Value:      dec("12000.456"),
		WeightPct:  decPtr("10"),
		StartDate:  &siteStart,
		Checklist:  []dto.ChecklistItemRequest{{Label: "Wiring"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskTodo, task.Status)
	assert.Equal(t, "Electrical", task.Title)
	assert.True(t, task.Value.Equal(dec("12000.46")))

	stored, err := w.store.FindTaskByID(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, w.project.ProjectID, stored.ProjectID)

	_, err = w.svc.Task.CreateTask(ctx, w.architect, w.project.ProjectID, dto.CreateTaskRequest{
		Title:      "",
		AssignedTo: uuid.NewString(),
		Value:      dec("-1"),
		WeightPct:  decPtr("101"),
	})
	var verrs *apperrors.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs.Errors, 4)

	_, err = w.svc.Task.CreateTask(ctx, w.siteEngineer, w.project.ProjectID, dto.CreateTaskRequest{Title: "x", AssignedTo: w.siteEngineer.UserID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = w.svc.Task.CreateTask(ctx, w.architect, w.legacyProject.ProjectID, dto.CreateTaskRequest{Title: "x", AssignedTo: w.siteEngineer.UserID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

// countingTasks counts task fetches through the store.
type countingTasks struct {
	*memory.Store
	mu    sync.Mutex
	calls int
}

func (c *countingTasks) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.Store.FindTaskByID(ctx, id)
}

var _ portsrepo.TaskRepositoryFacade = (*countingTasks)(nil)

func TestGetTask_AccessWalkAndReadShareOneFetch(t *testing.T) {
	w := newWorld(t)
	counting := &countingTasks{Store: w.store}
	repos := w.repos
	repos.TaskRepo = counting
	svc := services.NewServiceContainer(repos, nil)

	task, err := svc.Task.GetTask(context.Background(), w.client, w.reviewTask.TaskID)
	require.NoError(t, err)
	assert.Equal(t, w.reviewTask.TaskID, task.TaskID)
	assert.Equal(t, 1, counting.calls)
}
