package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	Credit EntryType = "CREDIT"
	Debit  EntryType = "DEBIT"
)

// LedgerCategory classifies why money moved.
type LedgerCategory string

const (
	CategoryTaskPayout  LedgerCategory = "TASK_PAYOUT"
	CategoryPlatformFee LedgerCategory = "PLATFORM_FEE"
	CategoryWithheld    LedgerCategory = "WITHHELD"
	CategoryPenalty     LedgerCategory = "PENALTY"
	CategoryAdjustment  LedgerCategory = "ADJUSTMENT"
	CategoryRefund      LedgerCategory = "REFUND"
	CategoryOther       LedgerCategory = "OTHER"
)

// LedgerStatus is the processing state of a ledger entry.
type LedgerStatus string

const (
	LedgerPending   LedgerStatus = "PENDING"
	LedgerProcessed LedgerStatus = "PROCESSED"
	LedgerCancelled LedgerStatus = "CANCELLED"
)

// LedgerEntry is an immutable financial fact. Entries are only ever appended;
// corrections are new ADJUSTMENT or REFUND entries.
type LedgerEntry struct {
	EntryID        string          `json:"entryID"`
	ProjectID      string          `json:"projectID"`
	TaskID         *string         `json:"taskID,omitempty"`
	EntryType      EntryType       `json:"entryType"`
	Category       LedgerCategory  `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Status         LedgerStatus    `json:"status"`
	Description    string          `json:"description"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	IdempotencyKey string          `json:"idempotencyKey"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// NewLedgerEntry builds a PENDING entry. A non-positive amount is a caller
// bug and panics.
func NewLedgerEntry(id, projectID string, taskID *string, entryType EntryType, category LedgerCategory, amount decimal.Decimal, idempotencyKey, createdBy string, at time.Time) LedgerEntry {
	if !amount.IsPositive() {
		panic(fmt.Sprintf("ledger entry %s/%s: amount must be positive, got %s", category, idempotencyKey, amount))
	}
	return LedgerEntry{
		EntryID:        id,
		ProjectID:      projectID,
		TaskID:         taskID,
		EntryType:      entryType,
		Category:       category,
		Amount:         amount,
		Status:         LedgerPending,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      at,
		CreatedBy:      createdBy,
	}
}

// SignedAmount is positive for credits and negative for debits.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.EntryType == Debit {
		return e.Amount.Neg()
	}
	return e.Amount
}
