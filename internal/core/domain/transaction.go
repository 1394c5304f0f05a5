package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a manually recorded cash movement.
type TransactionType string

const (
	PaymentIn        TransactionType = "PAYMENT_IN"
	PaymentOut       TransactionType = "PAYMENT_OUT"
	MaterialPurchase TransactionType = "MATERIAL_PURCHASE"
	Labour           TransactionType = "LABOUR"
	Expense          TransactionType = "EXPENSE"
	OtherTransaction TransactionType = "OTHER"
)

// IsInflow reports whether the transaction brings money into the project.
func (t TransactionType) IsInflow() bool {
	return t == PaymentIn
}

// Transaction is bookkeeping input tied to a project. It is kept apart from
// LedgerEntry, which is system-derived settlement output.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	ProjectID       string          `json:"projectID"`
	VendorID        *string         `json:"vendorID,omitempty"`
	PartyID         *string         `json:"partyID,omitempty"`
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Notes           string          `json:"notes"`
	AuditFields
}
