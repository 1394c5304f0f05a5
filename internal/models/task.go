package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Proof is the JSON shape of one element of tasks.proofs.
type Proof struct {
	Type         string   `json:"type"`
	URL          string   `json:"url"`
	ThumbnailURL string   `json:"thumbnailURL,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Timestamp    string   `json:"timestamp"`
}

// ChecklistItem is the JSON shape of one element of tasks.checklist.
type ChecklistItem struct {
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// Task is a row of the tasks table. Proofs and checklist are JSONB columns.
type Task struct {
	TaskID          string           `db:"task_id"`
	ProjectID       string           `db:"project_id"`
	Title           string           `db:"title"`
	Status          string           `db:"status"`
	AssignedTo      string           `db:"assigned_to"`
	Value           decimal.Decimal  `db:"value"`
	WeightPct       *decimal.Decimal `db:"weight_pct"`
	Progress        int              `db:"progress"`
	StartDate       *time.Time       `db:"start_date"`
	Proofs          []Proof          `db:"proofs"`
	Checklist       []ChecklistItem  `db:"checklist"`
	SubmittedAt     *time.Time       `db:"submitted_at"`
	SubmittedBy     *string          `db:"submitted_by"`
	ApprovedAt      *time.Time       `db:"approved_at"`
	ApprovedBy      *string          `db:"approved_by"`
	RejectedAt      *time.Time       `db:"rejected_at"`
	RejectedBy      *string          `db:"rejected_by"`
	RejectionReason *string          `db:"rejection_reason"`
	PenaltyPercent  *decimal.Decimal `db:"penalty_percent"`
	PenaltyReason   *string          `db:"penalty_reason"`
	Version         int64            `db:"version"`
	AuditFields
}
