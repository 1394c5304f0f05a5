// Package memory is a process-local record store used for development and
// tests. It honours the same compare-and-swap and idempotency contracts as
// the Postgres store.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/site_workflow_app/internal/utils/pagination"
)

// Store holds every entity in maps guarded by one lock.
type Store struct {
	mu           sync.RWMutex
	users        map[string]domain.User
	projects     map[string]domain.Project
	quotes       map[string]domain.Quote
	leads        map[string]domain.Lead
	tasks        map[string]domain.Task
	ledger       []domain.LedgerEntry
	ledgerKeys   map[string]struct{}
	transactions map[string]domain.Transaction
	measurements map[string]domain.SiteMeasurement
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:        map[string]domain.User{},
		projects:     map[string]domain.Project{},
		quotes:       map[string]domain.Quote{},
		leads:        map[string]domain.Lead{},
		tasks:        map[string]domain.Task{},
		ledgerKeys:   map[string]struct{}{},
		transactions: map[string]domain.Transaction{},
		measurements: map[string]domain.SiteMeasurement{},
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:        s,
		ProjectRepo:     s,
		QuoteRepo:       s,
		TaskRepo:        s,
		LedgerRepo:      s,
		TransactionRepo: s,
		MeasurementRepo: s,
		Health:          s,
	}
}

var (
	_ portsrepo.UserRepositoryFacade            = (*Store)(nil)
	_ portsrepo.ProjectRepositoryFacade         = (*Store)(nil)
	_ portsrepo.QuoteRepositoryFacade           = (*Store)(nil)
	_ portsrepo.TaskRepositoryFacade            = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade          = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade     = (*Store)(nil)
	_ portsrepo.SiteMeasurementRepositoryFacade = (*Store)(nil)
	_ portsrepo.HealthChecker                   = (*Store)(nil)
)

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// --- Users ---

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
	return nil
}

// --- Projects, quotes and leads ---

func (s *Store) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[projectID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) SaveProject(ctx context.Context, project domain.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ProjectID]; ok {
		return fmt.Errorf("project %s: %w", project.ProjectID, apperrors.ErrDuplicate)
	}
	s.projects[project.ProjectID] = project
	return nil
}

func (s *Store) UpdateProjectProgress(ctx context.Context, projectID string, progress decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Progress = progress
	p.LastUpdatedAt = updatedAt
	p.LastUpdatedBy = updatedBy
	s.projects[projectID] = p
	return nil
}

func (s *Store) FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[quoteID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	q.Assigned = slices.Clone(q.Assigned)
	return &q, nil
}

func (s *Store) FindLeadByID(ctx context.Context, leadID string) (*domain.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leads[leadID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &l, nil
}

func (s *Store) SaveQuote(ctx context.Context, quote domain.Quote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.quotes[quote.QuoteID]; exists {
		return fmt.Errorf("quote %s: %w", quote.QuoteID, apperrors.ErrDuplicate)
	}
	quote.Assigned = slices.Clone(quote.Assigned)
	s.quotes[quote.QuoteID] = quote
	return nil
}

func (s *Store) SaveLead(ctx context.Context, lead domain.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.leads[lead.LeadID]; exists {
		return fmt.Errorf("lead %s: %w", lead.LeadID, apperrors.ErrDuplicate)
	}
	s.leads[lead.LeadID] = lead
	return nil
}

// --- Site measurements ---

func (s *Store) FindSiteMeasurementByID(ctx context.Context, measurementID string) (*domain.SiteMeasurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.measurements[measurementID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &m, nil
}

func (s *Store) ListSiteMeasurementsByProject(ctx context.Context, projectID string) ([]domain.SiteMeasurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.SiteMeasurement{}
	for _, m := range s.measurements {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return before(out[i].CreatedAt, out[i].MeasurementID, out[j].CreatedAt, out[j].MeasurementID)
	})
	return out, nil
}

func (s *Store) SaveSiteMeasurement(ctx context.Context, m domain.SiteMeasurement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.measurements[m.MeasurementID]; exists {
		return fmt.Errorf("site measurement %s: %w", m.MeasurementID, apperrors.ErrDuplicate)
	}
	s.measurements[m.MeasurementID] = m
	return nil
}

// --- Tasks ---

func cloneTask(t domain.Task) domain.Task {
	t.Proofs = slices.Clone(t.Proofs)
	t.Checklist = slices.Clone(t.Checklist)
	return t
}

func (s *Store) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	t = cloneTask(t)
	return &t, nil
}

func (s *Store) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Task{}
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return before(out[i].CreatedAt, out[i].TaskID, out[j].CreatedAt, out[j].TaskID)
	})
	return out, nil
}

func (s *Store) ListUnsettledDoneTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	settled := map[string]bool{}
	for _, e := range s.ledger {
		if e.TaskID != nil {
			settled[*e.TaskID] = true
		}
	}
	out := []domain.Task{}
	for _, t := range s.tasks {
		if t.Status == domain.TaskDone && t.Value.IsPositive() && !settled[t.TaskID] {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return before(approvedAt(out[i]), out[i].TaskID, approvedAt(out[j]), out[j].TaskID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func approvedAt(t domain.Task) time.Time {
	if t.ApprovedAt != nil {
		return *t.ApprovedAt
	}
	return t.LastUpdatedAt
}

func (s *Store) SaveTask(ctx context.Context, task domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.TaskID]; ok {
		return fmt.Errorf("task %s: %w", task.TaskID, apperrors.ErrDuplicate)
	}
	s.tasks[task.TaskID] = cloneTask(task)
	return nil
}

// swapTask must be called with the write lock held.
func (s *Store) swapTask(task domain.Task, expected domain.TaskStatus) error {
	current, ok := s.tasks[task.TaskID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if current.Status != expected {
		return apperrors.NewConflictError(fmt.Sprintf("task %s is %s, expected %s", task.TaskID, current.Status, expected))
	}
	if current.Version != task.Version {
		return apperrors.NewConflictError(fmt.Sprintf("task %s changed since it was read (version %d, read %d)", task.TaskID, current.Version, task.Version))
	}
	next := cloneTask(task)
	next.Version++
	s.tasks[task.TaskID] = next
	return nil
}

func (s *Store) SaveTransition(ctx context.Context, task domain.Task, expected domain.TaskStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swapTask(task, expected)
}

func (s *Store) SaveApproval(ctx context.Context, task domain.Task, expected domain.TaskStatus, entries []domain.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.swapTask(task, expected); err != nil {
		return err
	}
	s.appendLocked(entries)
	return nil
}

// --- Ledger ---

// cloneEntry detaches the pointer and map fields, so neither the writer's
// copy nor a reader's copy aliases the stored ledger.
func cloneEntry(e domain.LedgerEntry) domain.LedgerEntry {
	if e.TaskID != nil {
		id := *e.TaskID
		e.TaskID = &id
	}
	e.Metadata = maps.Clone(e.Metadata)
	return e
}

// appendLocked must be called with the write lock held.
func (s *Store) appendLocked(entries []domain.LedgerEntry) int {
	written := 0
	for _, e := range entries {
		if _, dup := s.ledgerKeys[e.IdempotencyKey]; dup {
			continue
		}
		s.ledgerKeys[e.IdempotencyKey] = struct{}{}
		s.ledger = append(s.ledger, cloneEntry(e))
		written++
	}
	return written
}

func (s *Store) AppendLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(entries), nil
}

func (s *Store) ledgerWhere(keep func(domain.LedgerEntry) bool) []domain.LedgerEntry {
	out := []domain.LedgerEntry{}
	for _, e := range s.ledger {
		if keep(e) {
			out = append(out, cloneEntry(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i].CreatedAt, out[i].EntryID, out[j].CreatedAt, out[j].EntryID)
	})
	return out
}

func (s *Store) ListLedgerEntriesByProject(ctx context.Context, projectID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	all := s.ledgerWhere(func(e domain.LedgerEntry) bool { return e.ProjectID == projectID })
	s.mu.RUnlock()
	return page(all, limit, nextToken, func(e domain.LedgerEntry) (time.Time, string) { return e.CreatedAt, e.EntryID })
}

func (s *Store) ListAllLedgerEntriesByProject(ctx context.Context, projectID string) ([]domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledgerWhere(func(e domain.LedgerEntry) bool { return e.ProjectID == projectID }), nil
}

func (s *Store) ListLedgerEntriesByTask(ctx context.Context, taskID string) ([]domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledgerWhere(func(e domain.LedgerEntry) bool { return e.TaskID != nil && *e.TaskID == taskID }), nil
}

// --- Transactions ---

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (s *Store) projectTransactions(projectID string) []domain.Transaction {
	out := []domain.Transaction{}
	for _, t := range s.transactions {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return before(out[i].CreatedAt, out[i].TransactionID, out[j].CreatedAt, out[j].TransactionID)
	})
	return out
}

func (s *Store) ListTransactionsByProject(ctx context.Context, projectID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	all := s.projectTransactions(projectID)
	s.mu.RUnlock()
	return page(all, limit, nextToken, func(t domain.Transaction) (time.Time, string) { return t.CreatedAt, t.TransactionID })
}

func (s *Store) ListAllTransactionsByProject(ctx context.Context, projectID string) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectTransactions(projectID), nil
}

func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transactions[txn.TransactionID]; exists {
		return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
	}
	s.transactions[txn.TransactionID] = txn
	return nil
}

// --- helpers ---

func before(at time.Time, id string, otherAt time.Time, otherID string) bool {
	if at.Equal(otherAt) {
		return id < otherID
	}
	return at.Before(otherAt)
}

// page applies keyset pagination to rows already sorted by (createdAt, id).
func page[T any](rows []T, limit int, nextToken *string, key func(T) (time.Time, string)) ([]T, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.NewValidationFailedError("invalid nextToken"), err)
		}
		start := len(rows)
		for i, r := range rows {
			if at, id := key(r); cursor.After(at, id) {
				start = i
				break
			}
		}
		rows = rows[start:]
	}
	if len(rows) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	at, id := key(rows[limit-1])
	token := pagination.EncodeToken(at, id)
	return rows, &token, nil
}
