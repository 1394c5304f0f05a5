package accounting

import (
	"testing"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func weighted(status domain.TaskStatus, weight string, value string) domain.Task {
	t := domain.Task{TaskID: weight + string(status), Status: status, Value: dec(value)}
	if weight != "" {
		w := dec(weight)
		t.WeightPct = &w
	}
	return t
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name          string
		tasks         []domain.Task
		wantProgress  string
		wantCompleted int
	}{
		{"empty project", nil, "0", 0},
		{"clamped at 100", []domain.Task{weighted(domain.TaskDone, "60", "1"), weighted(domain.TaskDone, "60", "1")}, "100", 2},
		{"only done tasks count", []domain.Task{weighted(domain.TaskDone, "30", "1"), weighted(domain.TaskReview, "50", "1"), weighted(domain.TaskRejected, "20", "1")}, "30", 1},
		{"missing weight contributes zero", []domain.Task{weighted(domain.TaskDone, "", "1"), weighted(domain.TaskDone, "25", "1")}, "25", 2},
		{"rounded to two places", []domain.Task{weighted(domain.TaskDone, "33.333", "1"), weighted(domain.TaskDone, "33.333", "1")}, "66.67", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProgress(tt.tasks)
			assert.True(t, dec(tt.wantProgress).Equal(got.Progress), "progress: want %s, got %s", tt.wantProgress, got.Progress)
			assert.Equal(t, tt.wantCompleted, got.CompletedCount)
			assert.Equal(t, len(tt.tasks), got.TotalCount)
		})
	}
}

func TestComputeProgress_Values(t *testing.T) {
	got := ComputeProgress([]domain.Task{
		weighted(domain.TaskDone, "10", "1500.50"),
		weighted(domain.TaskTodo, "10", "499.50"),
	})
	assert.True(t, dec("2000").Equal(got.TotalValue))
	assert.True(t, dec("1500.50").Equal(got.CompletedValue))
}

func TestWithTaskDone(t *testing.T) {
	tasks := []domain.Task{
		{TaskID: "a", Status: domain.TaskReview},
		{TaskID: "b", Status: domain.TaskTodo},
	}
	out := WithTaskDone(tasks, "a")
	assert.Equal(t, domain.TaskDone, out[0].Status)
	assert.Equal(t, domain.TaskTodo, out[1].Status)
	assert.Equal(t, domain.TaskReview, tasks[0].Status, "input must not be modified")
	assert.True(t, decimal.Zero.Equal(ComputeProgress(tasks).Progress))
}
