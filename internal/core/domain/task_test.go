package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.TaskStatus
		event  domain.TaskEvent
		want   domain.TaskStatus
		wantOK bool
	}{
		{"submit from todo", domain.TaskTodo, domain.EventSubmit, domain.TaskReview, true},
		{"submit from in progress", domain.TaskInProgress, domain.EventSubmit, domain.TaskReview, true},
		{"resubmit after rejection", domain.TaskRejected, domain.EventSubmit, domain.TaskReview, true},
		{"submit from review", domain.TaskReview, domain.EventSubmit, "", false},
		{"submit from done", domain.TaskDone, domain.EventSubmit, "", false},
		{"approve from review", domain.TaskReview, domain.EventApprove, domain.TaskDone, true},
		{"approve from todo", domain.TaskTodo, domain.EventApprove, "", false},
		{"approve from done", domain.TaskDone, domain.EventApprove, "", false},
		{"reject from review", domain.TaskReview, domain.EventReject, domain.TaskRejected, true},
		{"reject from rejected", domain.TaskRejected, domain.EventReject, "", false},
		{"unknown event", domain.TaskReview, domain.TaskEvent("archive"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.NextStatus(tt.from, tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskStatus_DoneIsTerminal(t *testing.T) {
	assert.True(t, domain.TaskDone.IsTerminal())
	for _, ev := range []domain.TaskEvent{domain.EventSubmit, domain.EventApprove, domain.EventReject} {
		_, ok := domain.NextStatus(domain.TaskDone, ev)
		assert.False(t, ok, "event %s must not leave DONE", ev)
	}
	assert.False(t, domain.TaskRejected.IsTerminal())
}

func TestTask_Weight(t *testing.T) {
	w := decimal.NewFromInt(25)
	assert.True(t, domain.Task{WeightPct: &w}.Weight().Equal(w))
	assert.True(t, domain.Task{}.Weight().IsZero())
}

func TestTask_ChecklistComplete(t *testing.T) {
	assert.False(t, domain.Task{}.ChecklistComplete(), "empty checklist is never complete")
	assert.False(t, domain.Task{Checklist: []domain.ChecklistItem{{Label: "a", Completed: true}, {Label: "b"}}}.ChecklistComplete())
	assert.True(t, domain.Task{Checklist: []domain.ChecklistItem{{Label: "a", Completed: true}}}.ChecklistComplete())
}

var fixedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
