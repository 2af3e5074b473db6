package invoice

import (
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/shopspring/decimal"
)

const (
	// HoursPerYear is the divisor turning an annual rate into an hourly one
	HoursPerYear = 8760

	secondsPerHour = 3600
)

// IsOverdue reports whether the invoice is past due at unix time t. An invoice
// due on receipt (DueAt == 0) is never overdue.
func (i *Invoice) IsOverdue(t int64) bool {
	return i.DueAt != 0 && t > i.DueAt
}

// HoursOverdue is the number of whole hours elapsed since DueAt, sub hour
// remainders are dropped
func (i *Invoice) HoursOverdue(t int64) int64 {
	if !i.IsOverdue(t) {
		return 0
	}
	return (t - i.DueAt) / secondsPerHour
}

// FeePerHour is principal * rate (fixed point, truncated) / HoursPerYear (truncated)
func (i *Invoice) FeePerHour() decimal.Decimal {
	return fixedpoint.DivInt(fixedpoint.Mul(i.Principal, i.AnnualInterestRate), HoursPerYear)
}

// OverdueFee is simple linear interest for the whole hours overdue at t. The
// truncation in FeePerHour is carried through on purpose.
func (i *Invoice) OverdueFee(t int64) decimal.Decimal {
	hours := i.HoursOverdue(t)
	if hours == 0 {
		return decimal.Zero
	}
	return fixedpoint.MulInt(i.FeePerHour(), hours)
}

// Outstanding is principal + overdue fee at t - paid amount. Once settled the
// fee is frozen at LateFeesRecorded, so a paid invoice reports zero no matter
// how far t is past the due date. Open invoices are not clamped.
func (i *Invoice) Outstanding(t int64) decimal.Decimal {
	if i.IsPaid {
		return i.Principal.Add(i.LateFeesRecorded).Sub(i.PaidAmount)
	}
	return i.Principal.Add(i.OverdueFee(t)).Sub(i.PaidAmount)
}
