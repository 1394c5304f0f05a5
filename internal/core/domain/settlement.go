package domain

import "github.com/shopspring/decimal"

// Deduction is one stage of the payout cascade.
type Deduction struct {
	Percent decimal.Decimal `json:"percent"`
	Base    decimal.Decimal `json:"base"`
	Amount  decimal.Decimal `json:"amount"`
}

// PayoutBreakdown is the full fee/withholding/penalty cascade for one payout.
// Every monetary value is rounded to 2dp at its own stage.
type PayoutBreakdown struct {
	GrossAmount   decimal.Decimal `json:"grossAmount"`
	Progress      decimal.Decimal `json:"progress"`
	ProjectTotal  decimal.Decimal `json:"projectTotal"`
	PreviousPaid  decimal.Decimal `json:"previousPaid"`
	Payable       decimal.Decimal `json:"payable"` // progress-based entitlement, informational
	PlatformFee   Deduction       `json:"platformFee"`
	AfterFee      decimal.Decimal `json:"afterFee"`
	Withheld      Deduction       `json:"withheld"`
	AfterWithheld decimal.Decimal `json:"afterWithheld"`
	Penalty       Deduction       `json:"penalty"`
	PenaltyReason string          `json:"penaltyReason,omitempty"`
	FinalPayable  decimal.Decimal `json:"finalPayable"`
}

// ExceedsEntitlement reports whether the disbursed gross is larger than the
// progress-based entitlement.
func (b PayoutBreakdown) ExceedsEntitlement() bool {
	return b.GrossAmount.GreaterThan(b.Payable)
}

// ProgressSummary is the completion picture of one project's tasks.
type ProgressSummary struct {
	Progress       decimal.Decimal `json:"progress"`
	CompletedCount int             `json:"completedCount"`
	TotalCount     int             `json:"totalCount"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	CompletedValue decimal.Decimal `json:"completedValue"`
}

// ApprovalResult is returned by a successful approval. Progress and Payout are
// nil when the derived data could not be produced and awaits reconciliation.
type ApprovalResult struct {
	Task              Task             `json:"task"`
	Progress          *ProgressSummary `json:"progress"`
	Payout            *PayoutBreakdown `json:"payout"`
	LedgerEntries     []LedgerEntry    `json:"ledgerEntries"`
	SettlementPending bool             `json:"settlementPending"`
}
