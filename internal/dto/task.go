package dto

import (
	"time"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Task DTOs ---

// GPSRequest is the capture location reported by the device.
type GPSRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ProofRequest is one proof-of-work item in a submission. Range and format
// checks are done by the proof validator so every problem is reported at once.
type ProofRequest struct {
	Type         string      `json:"type" binding:"required,oneof=photo video document"`
	URL          string      `json:"url"`
	ThumbnailURL string      `json:"thumbnailURL"`
	GPS          *GPSRequest `json:"gps"`
	Timestamp    string      `json:"timestamp"`
}

// SubmitTaskRequest carries the proofs for a submission.
type SubmitTaskRequest struct {
	Proofs []ProofRequest `json:"proofs" binding:"dive"`
}

// ToDomainProofs converts the submitted proofs into domain values.
func (r SubmitTaskRequest) ToDomainProofs() []domain.Proof {
	proofs := make([]domain.Proof, len(r.Proofs))
	for i, p := range r.Proofs {
		proofs[i] = domain.Proof{
			Type:         domain.ProofType(p.Type),
			URL:          p.URL,
			ThumbnailURL: p.ThumbnailURL,
			Timestamp:    p.Timestamp,
		}
		if p.GPS != nil {
			proofs[i].GPS = &domain.GPS{Latitude: p.GPS.Latitude, Longitude: p.GPS.Longitude}
		}
	}
	return proofs
}

// ApproveTaskRequest optionally applies a penalty to the payout.
type ApproveTaskRequest struct {
	PenaltyPercent *decimal.Decimal `json:"penaltyPercent"`
	PenaltyReason  string           `json:"penaltyReason"`
}

// RejectTaskRequest carries the reviewer's reason. Blank reasons are rejected
// by the lifecycle service, not by binding, so the message is consistent.
type RejectTaskRequest struct {
	Reason string `json:"reason"`
}

// ChecklistItemRequest is one checklist line of a new task.
type ChecklistItemRequest struct {
	Label     string `json:"label" binding:"required"`
	Completed bool   `json:"completed"`
}

// CreateTaskRequest defines data for creating a task on a project.
type CreateTaskRequest struct {
	Title      string                 `json:"title" binding:"required"`
	AssignedTo string                 `json:"assignedTo" binding:"required,uuid"`
	Value      decimal.Decimal        `json:"value"`
	WeightPct  *decimal.Decimal       `json:"weightPct"`
	StartDate  *time.Time             `json:"startDate"`
	Checklist  []ChecklistItemRequest `json:"checklist" binding:"dive"`
}

// TaskResponse defines the data returned for a task.
type TaskResponse struct {
	TaskID          string                 `json:"taskID"`
	ProjectID       string                 `json:"projectID"`
	Title           string                 `json:"title"`
	Status          string                 `json:"status"`
	AssignedTo      string                 `json:"assignedTo"`
	Value           decimal.Decimal        `json:"value"`
	WeightPct       *decimal.Decimal       `json:"weightPct,omitempty"`
	Progress        int                    `json:"progress"`
	StartDate       *time.Time             `json:"startDate,omitempty"`
	Proofs          []domain.Proof         `json:"proofs"`
	Checklist       []domain.ChecklistItem `json:"checklist"`
	SubmittedAt     *time.Time             `json:"submittedAt,omitempty"`
	SubmittedBy     *string                `json:"submittedBy,omitempty"`
	ApprovedAt      *time.Time             `json:"approvedAt,omitempty"`
	ApprovedBy      *string                `json:"approvedBy,omitempty"`
	RejectedAt      *time.Time             `json:"rejectedAt,omitempty"`
	RejectedBy      *string                `json:"rejectedBy,omitempty"`
	RejectionReason *string                `json:"rejectionReason,omitempty"`
	PenaltyPercent  *decimal.Decimal       `json:"penaltyPercent,omitempty"`
	PenaltyReason   *string                `json:"penaltyReason,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy   string                 `json:"lastUpdatedBy"`
}

// ToTaskResponse converts a domain.Task to TaskResponse DTO.
func ToTaskResponse(t *domain.Task) TaskResponse {
	proofs := t.Proofs
	if proofs == nil {
		proofs = []domain.Proof{}
	}
	checklist := t.Checklist
	if checklist == nil {
		checklist = []domain.ChecklistItem{}
	}
	return TaskResponse{
		TaskID:          t.TaskID,
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		Status:          string(t.Status),
		AssignedTo:      t.AssignedTo,
		Value:           t.Value,
		WeightPct:       t.WeightPct,
		Progress:        t.Progress,
		StartDate:       t.StartDate,
		Proofs:          proofs,
		Checklist:       checklist,
		SubmittedAt:     t.SubmittedAt,
		SubmittedBy:     t.SubmittedBy,
		ApprovedAt:      t.ApprovedAt,
		ApprovedBy:      t.ApprovedBy,
		RejectedAt:      t.RejectedAt,
		RejectedBy:      t.RejectedBy,
		RejectionReason: t.RejectionReason,
		PenaltyPercent:  t.PenaltyPercent,
		PenaltyReason:   t.PenaltyReason,
		CreatedAt:       t.CreatedAt,
		CreatedBy:       t.CreatedBy,
		LastUpdatedAt:   t.LastUpdatedAt,
		LastUpdatedBy:   t.LastUpdatedBy,
	}
}

// ListTasksResponse wraps a list of tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// ToListTasksResponse converts a slice of domain.Task to DTO.
func ToListTasksResponse(tasks []domain.Task) ListTasksResponse {
	list := make([]TaskResponse, len(tasks))
	for i := range tasks {
		list[i] = ToTaskResponse(&tasks[i])
	}
	return ListTasksResponse{Tasks: list}
}

// ApprovalResponse is returned by a successful approval. Progress and payout
// are null while settlement awaits reconciliation.
type ApprovalResponse struct {
	Task              TaskResponse            `json:"task"`
	Progress          *domain.ProgressSummary `json:"progress"`
	Payout            *domain.PayoutBreakdown `json:"payout"`
	LedgerEntries     []LedgerEntryResponse   `json:"ledgerEntries"`
	SettlementPending bool                    `json:"settlementPending"`
}

// ToApprovalResponse converts a domain.ApprovalResult to DTO.
func ToApprovalResponse(r *domain.ApprovalResult) ApprovalResponse {
	return ApprovalResponse{
		Task:              ToTaskResponse(&r.Task),
		Progress:          r.Progress,
		Payout:            r.Payout,
		LedgerEntries:     ToLedgerEntryResponses(r.LedgerEntries),
		SettlementPending: r.SettlementPending,
	}
}

// ReconcileSummary reports one reconciliation pass.
type ReconcileSummary struct {
	Scanned        int      `json:"scanned"`
	Settled        int      `json:"settled"`
	EntriesWritten int      `json:"entriesWritten"`
	Failed         []string `json:"failed"` // task ids that could not be settled
}
