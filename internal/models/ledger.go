package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of the append-only ledger_entries table.
type LedgerEntry struct {
	EntryID        string          `db:"entry_id"`
	ProjectID      string          `db:"project_id"`
	TaskID         *string         `db:"task_id"`
	EntryType      string          `db:"entry_type"`
	Category       string          `db:"category"`
	Amount         decimal.Decimal `db:"amount"`
	Status         string          `db:"status"`
	Description    string          `db:"description"`
	Metadata       map[string]any  `db:"metadata"` // JSONB
	IdempotencyKey string          `db:"idempotency_key"`
	CreatedAt      time.Time       `db:"created_at"`
	CreatedBy      string          `db:"created_by"`
}
