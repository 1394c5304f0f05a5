package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table: a manually recorded cash
// movement, kept apart from the settlement ledger.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	ProjectID       string          `db:"project_id"`
	VendorID        *string         `db:"vendor_id"`
	PartyID         *string         `db:"party_id"`
	TransactionType string          `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionDate time.Time       `db:"transaction_date"`
	Notes           string          `db:"notes"`
	AuditFields
}
