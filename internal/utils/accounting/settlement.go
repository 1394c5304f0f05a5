package accounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/google/uuid"
)

// SettlementKey is the idempotency key of one settlement entry of a task.
// Replaying a settlement with the same keys writes nothing new.
func SettlementKey(taskID string, category domain.LedgerCategory) string {
	return fmt.Sprintf("settlement:%s:%s", taskID, category)
}

// BuildSettlementEntries turns a breakdown into ledger entries: a CREDIT for
// the gross task value and a DEBIT per deduction stage with a positive amount.
// A zero gross yields no entries.
func BuildSettlementEntries(task domain.Task, b domain.PayoutBreakdown, createdBy string, at time.Time) []domain.LedgerEntry {
	if !b.GrossAmount.IsPositive() {
		return nil
	}

	taskID := task.TaskID
	common := map[string]any{
		"grossAmount":  b.GrossAmount.String(),
		"payable":      b.Payable.String(),
		"finalPayable": b.FinalPayable.String(),
		"progress":     b.Progress.String(),
		"previousPaid": b.PreviousPaid.String(),
		"projectTotal": b.ProjectTotal.String(),
	}

	credit := domain.NewLedgerEntry(uuid.NewString(), task.ProjectID, &taskID, domain.Credit, domain.CategoryTaskPayout,
		b.GrossAmount, SettlementKey(taskID, domain.CategoryTaskPayout), createdBy, at)
	credit.Description = fmt.Sprintf("Payout for task %q", task.Title)
	credit.Metadata = withStage(common, nil)
	entries := []domain.LedgerEntry{credit}

	stages := []struct {
		category domain.LedgerCategory
		d        domain.Deduction
		label    string
	}{
		{domain.CategoryPlatformFee, b.PlatformFee, "Platform fee"},
		{domain.CategoryWithheld, b.Withheld, "Withheld retention"},
		{domain.CategoryPenalty, b.Penalty, "Penalty"},
	}
	for _, s := range stages {
		if !s.d.Amount.IsPositive() {
			continue
		}
		debit := domain.NewLedgerEntry(uuid.NewString(), task.ProjectID, &taskID, domain.Debit, s.category,
			s.d.Amount, SettlementKey(taskID, s.category), createdBy, at)
		debit.Description = fmt.Sprintf("%s %s%% of %s", s.label, s.d.Percent.String(), s.d.Base.StringFixed(2))
		stage := s.d
		debit.Metadata = withStage(common, &stage)
		if s.category == domain.CategoryPenalty && b.PenaltyReason != "" {
			debit.Metadata["penaltyReason"] = b.PenaltyReason
		}
		entries = append(entries, debit)
	}
	return entries
}

func withStage(common map[string]any, d *domain.Deduction) map[string]any {
	m := make(map[string]any, len(common)+3)
	for k, v := range common {
		m[k] = v
	}
	if d != nil {
		m["percent"] = d.Percent.String()
		m["base"] = d.Base.String()
		m["amount"] = d.Amount.String()
	}
	return m
}
