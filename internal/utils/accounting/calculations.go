package accounting

import (
	"fmt"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	// PlatformFeePercent is taken from the gross amount first.
	PlatformFeePercent = decimal.NewFromInt(4)
	// WithheldPercent is retained from the amount left after the platform fee.
	WithheldPercent = decimal.NewFromInt(15)

	hundred = decimal.NewFromInt(100)
)

// Round2 rounds a monetary value to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentOf returns round2(base * percent / 100).
func PercentOf(base, percent decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(percent).Div(hundred))
}

// PayoutInput holds the inputs of the payout cascade.
type PayoutInput struct {
	GrossAmount    decimal.Decimal
	Progress       decimal.Decimal // project completion in [0,100]
	PreviousPaid   decimal.Decimal
	ProjectTotal   decimal.Decimal
	PenaltyPercent decimal.Decimal
	PenaltyReason  string
}

// ComputePayoutBreakdown runs the fixed-order deduction cascade. Each stage
// works on the rounded output of the previous one, never on the gross.
//
// Out-of-range inputs are caller bugs and panic.
func ComputePayoutBreakdown(in PayoutInput) domain.PayoutBreakdown {
	mustBeInRange("progress", in.Progress, decimal.Zero, hundred)
	mustBeInRange("penalty percent", in.PenaltyPercent, decimal.Zero, hundred)
	mustBeNonNegative("gross amount", in.GrossAmount)
	mustBeNonNegative("previous paid", in.PreviousPaid)
	mustBeNonNegative("project total", in.ProjectTotal)

	entitlement := Round2(in.Progress.Div(hundred).Mul(in.ProjectTotal))
	payable := decimal.Max(decimal.Zero, Round2(entitlement.Sub(in.PreviousPaid)))

	gross := Round2(in.GrossAmount)
	platformFee := PercentOf(gross, PlatformFeePercent)
	afterFee := Round2(gross.Sub(platformFee))

	withheld := PercentOf(afterFee, WithheldPercent)
	afterWithheld := Round2(afterFee.Sub(withheld))

	penalty := PercentOf(afterWithheld, in.PenaltyPercent)
	finalPayable := Round2(afterWithheld.Sub(penalty))

	return domain.PayoutBreakdown{
		GrossAmount:   gross,
		Progress:      in.Progress,
		ProjectTotal:  in.ProjectTotal,
		PreviousPaid:  in.PreviousPaid,
		Payable:       payable,
		PlatformFee:   domain.Deduction{Percent: PlatformFeePercent, Base: gross, Amount: platformFee},
		AfterFee:      afterFee,
		Withheld:      domain.Deduction{Percent: WithheldPercent, Base: afterFee, Amount: withheld},
		AfterWithheld: afterWithheld,
		Penalty:       domain.Deduction{Percent: in.PenaltyPercent, Base: afterWithheld, Amount: penalty},
		PenaltyReason: in.PenaltyReason,
		FinalPayable:  finalPayable,
	}
}

// NetPaid sums what a set of ledger entries has actually paid out: payout
// credits minus every debit, plus refunds and adjustments by their sign.
func NetPaid(entries []domain.LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Status == domain.LedgerCancelled {
			continue
		}
		total = total.Add(e.SignedAmount())
	}
	return Round2(total)
}

// TotalsByCategory sums signed ledger amounts per category, skipping cancelled entries.
func TotalsByCategory(entries []domain.LedgerEntry) map[domain.LedgerCategory]decimal.Decimal {
	totals := make(map[domain.LedgerCategory]decimal.Decimal)
	for _, e := range entries {
		if e.Status == domain.LedgerCancelled {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.SignedAmount())
	}
	return totals
}

func mustBeInRange(name string, v, lo, hi decimal.Decimal) {
	if v.LessThan(lo) || v.GreaterThan(hi) {
		panic(fmt.Sprintf("accounting: %s %s outside [%s,%s]", name, v, lo, hi))
	}
}

func mustBeNonNegative(name string, v decimal.Decimal) {
	if v.IsNegative() {
		panic(fmt.Sprintf("accounting: %s must not be negative, got %s", name, v))
	}
}
