// Package seed loads a JSON fixture of users and project records into a
// record store. It is used to bootstrap the in-memory store and demo
// databases; the identity subsystem remains the owner of real users.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// SystemUser is recorded as creator of records whose fixture omits one.
const SystemUser = "seed"

// Fixture is the file layout accepted by Decode.
type Fixture struct {
	Users        []domain.User            `json:"users"`
	Leads        []domain.Lead            `json:"leads"`
	Quotes       []domain.Quote           `json:"quotes"`
	Projects     []domain.Project         `json:"projects"`
	Tasks        []domain.Task            `json:"tasks"`
	Transactions []domain.Transaction     `json:"transactions"`
	Measurements []domain.SiteMeasurement `json:"measurements"`
}

// Summary counts what Apply wrote and what already existed.
type Summary struct {
	Written int `json:"written"`
	Skipped int `json:"skipped"`
}

// Decode reads a fixture and reports every malformed record at once.
func Decode(r io.Reader) (*Fixture, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if problems := f.validate(); len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems...)
	}
	return &f, nil
}

var knownStatuses = map[domain.TaskStatus]bool{
	domain.TaskTodo: true, domain.TaskInProgress: true, domain.TaskReview: true,
	domain.TaskDone: true, domain.TaskRejected: true,
}

func (f *Fixture) validate() []string {
	var problems []string
	check := func(kind string, i int, id string) {
		if _, err := uuid.Parse(id); err != nil {
			problems = append(problems, fmt.Sprintf("%s[%d]: id %q is not a uuid", kind, i, id))
		}
	}
	for i, u := range f.Users {
		check("users", i, u.UserID)
		if _, err := domain.ParseRole(string(u.Role)); err != nil {
			problems = append(problems, fmt.Sprintf("users[%d]: %v", i, err))
		}
	}
	for i, l := range f.Leads {
		check("leads", i, l.LeadID)
	}
	for i, q := range f.Quotes {
		check("quotes", i, q.QuoteID)
	}
	for i, p := range f.Projects {
		check("projects", i, p.ProjectID)
		if strings.TrimSpace(p.Name) == "" {
			problems = append(problems, fmt.Sprintf("projects[%d]: name is required", i))
		}
	}
	for i, t := range f.Tasks {
		check("tasks", i, t.TaskID)
		if t.Status != "" && !knownStatuses[t.Status] {
			problems = append(problems, fmt.Sprintf("tasks[%d]: unknown status %q", i, t.Status))
		}
		if t.Value.IsNegative() {
			problems = append(problems, fmt.Sprintf("tasks[%d]: value must not be negative", i))
		}
	}
	for i, txn := range f.Transactions {
		check("transactions", i, txn.TransactionID)
		if !txn.Amount.IsPositive() {
			problems = append(problems, fmt.Sprintf("transactions[%d]: amount must be positive", i))
		}
	}
	for i, m := range f.Measurements {
		check("measurements", i, m.MeasurementID)
	}
	return problems
}

func stamp(a domain.AuditFields, now time.Time) domain.AuditFields {
	if a.CreatedBy == "" {
		a.CreatedBy = SystemUser
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.LastUpdatedBy == "" {
		a.LastUpdatedBy = a.CreatedBy
	}
	if a.LastUpdatedAt.IsZero() {
		a.LastUpdatedAt = a.CreatedAt
	}
	return a
}

// Apply writes the fixture in dependency order. Users are upserted; any
// other record that already exists is left untouched and counted as skipped,
// so a fixture can be applied repeatedly.
func Apply(ctx context.Context, repos portsrepo.RepositoryProvider, f *Fixture, now time.Time) (Summary, error) {
	var sum Summary
	save := func(what, id string, err error) error {
		switch {
		case err == nil:
			sum.Written++
		case errors.Is(err, apperrors.ErrDuplicate):
			sum.Skipped++
		default:
			return fmt.Errorf("seed %s %s: %w", what, id, err)
		}
		return nil
	}

	for _, u := range f.Users {
		if err := save("user", u.UserID, repos.UserRepo.SaveUser(ctx, u)); err != nil {
			return sum, err
		}
	}
	for _, l := range f.Leads {
		l.AuditFields = stamp(l.AuditFields, now)
		if err := save("lead", l.LeadID, repos.QuoteRepo.SaveLead(ctx, l)); err != nil {
			return sum, err
		}
	}
	for _, q := range f.Quotes {
		q.AuditFields = stamp(q.AuditFields, now)
		if q.Assigned == nil {
			q.Assigned = []string{}
		}
		if err := save("quote", q.QuoteID, repos.QuoteRepo.SaveQuote(ctx, q)); err != nil {
			return sum, err
		}
	}
	for _, p := range f.Projects {
		p.AuditFields = stamp(p.AuditFields, now)
		if err := save("project", p.ProjectID, repos.ProjectRepo.SaveProject(ctx, p)); err != nil {
			return sum, err
		}
	}
	for _, t := range f.Tasks {
		t.AuditFields = stamp(t.AuditFields, now)
		if t.Status == "" {
			t.Status = domain.TaskTodo
		}
		if t.Proofs == nil {
			t.Proofs = []domain.Proof{}
		}
		if t.Checklist == nil {
			t.Checklist = []domain.ChecklistItem{}
		}
		if err := save("task", t.TaskID, repos.TaskRepo.SaveTask(ctx, t)); err != nil {
			return sum, err
		}
	}
	for _, txn := range f.Transactions {
		txn.AuditFields = stamp(txn.AuditFields, now)
		if txn.TransactionDate.IsZero() {
			txn.TransactionDate = now
		}
		if err := save("transaction", txn.TransactionID, repos.TransactionRepo.SaveTransaction(ctx, txn)); err != nil {
			return sum, err
		}
	}
	for _, m := range f.Measurements {
		m.AuditFields = stamp(m.AuditFields, now)
		if err := save("measurement", m.MeasurementID, repos.MeasurementRepo.SaveSiteMeasurement(ctx, m)); err != nil {
			return sum, err
		}
	}
	return sum, nil
}
