package accounting

import (
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComputeProgress derives a project's completion from its tasks.
//
// Weights are not validated to sum to 100 when tasks are created, so the
// total is clamped at 100 rather than rejected.
func ComputeProgress(tasks []domain.Task) domain.ProgressSummary {
	summary := domain.ProgressSummary{
		Progress:       decimal.Zero,
		TotalCount:     len(tasks),
		TotalValue:     decimal.Zero,
		CompletedValue: decimal.Zero,
	}

	weight := decimal.Zero
	for _, t := range tasks {
		summary.TotalValue = summary.TotalValue.Add(t.Value)
		if t.Status != domain.TaskDone {
			continue
		}
		summary.CompletedCount++
		summary.CompletedValue = summary.CompletedValue.Add(t.Value)
		weight = weight.Add(t.Weight())
	}

	summary.Progress = decimal.Min(hundred, Round2(weight))
	if summary.Progress.IsNegative() {
		summary.Progress = decimal.Zero
	}
	summary.TotalValue = Round2(summary.TotalValue)
	summary.CompletedValue = Round2(summary.CompletedValue)
	return summary
}

// WithTaskDone returns a copy of tasks in which the task with taskID is DONE,
// used to compute the progress a pending approval will produce.
func WithTaskDone(tasks []domain.Task, taskID string) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].TaskID == taskID {
			out[i].Status = domain.TaskDone
		}
	}
	return out
}
