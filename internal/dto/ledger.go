package dto

import (
	"time"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Ledger DTOs ---

// ListLedgerParams defines query parameters for listing a project's ledger.
type ListLedgerParams struct {
	Limit     int    `form:"limit"`
	NextToken string `form:"nextToken"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID        string          `json:"entryID"`
	ProjectID      string          `json:"projectID"`
	TaskID         *string         `json:"taskID,omitempty"`
	EntryType      string          `json:"entryType"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	Description    string          `json:"description"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	IdempotencyKey string          `json:"idempotencyKey"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// ToLedgerEntryResponse converts domain.LedgerEntry to DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:        e.EntryID,
		ProjectID:      e.ProjectID,
		TaskID:         e.TaskID,
		EntryType:      string(e.EntryType),
		Category:       string(e.Category),
		Amount:         e.Amount,
		Status:         string(e.Status),
		Description:    e.Description,
		Metadata:       e.Metadata,
		IdempotencyKey: e.IdempotencyKey,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

// ToLedgerEntryResponses converts a slice of domain.LedgerEntry to DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	list := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		list[i] = ToLedgerEntryResponse(&entries[i])
	}
	return list
}

// ListLedgerResponse wraps one page of ledger entries.
type ListLedgerResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// RecordAdjustmentRequest appends a correcting entry. Existing entries are
// never edited.
type RecordAdjustmentRequest struct {
	TaskID      *string         `json:"taskID" binding:"omitempty,uuid"`
	EntryType   string          `json:"entryType" binding:"required,oneof=CREDIT DEBIT"`
	Category    string          `json:"category" binding:"required,oneof=ADJUSTMENT REFUND"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"required"`
	// IdempotencyKey lets clients retry safely; one is generated when empty.
	IdempotencyKey string `json:"idempotencyKey"`
}

// SettlementPreviewRequest holds the inputs of a payout calculation.
type SettlementPreviewRequest struct {
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	Progress       decimal.Decimal `json:"progress"`
	PreviousPaid   decimal.Decimal `json:"previousPaid"`
	ProjectTotal   decimal.Decimal `json:"projectTotal"`
	PenaltyPercent decimal.Decimal `json:"penaltyPercent"`
	PenaltyReason  string          `json:"penaltyReason"`
}
