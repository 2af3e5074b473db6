package invoice

import (
	"testing"

	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const now int64 = 1_700_000_000

func newTestInvoice(principal, rate string, dueAt int64) *Invoice {
	return &Invoice{
		ID:                 1,
		Principal:          fixedpoint.MustParseUnits(principal),
		AnnualInterestRate: fixedpoint.MustParseUnits(rate),
		DueAt:              dueAt,
		PaidAmount:         decimal.Zero,
		LateFeesRecorded:   decimal.Zero,
	}
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name     string
		dueAt    int64
		at       int64
		expected bool
	}{
		{name: "due on receipt", dueAt: 0, at: now, expected: false},
		{name: "future due date", dueAt: now + 60, at: now, expected: false},
		{name: "exactly at due date", dueAt: now, at: now, expected: false},
		{name: "one second late", dueAt: now, at: now + 1, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice("100", "0", tt.dueAt)
			assert.Equal(t, tt.expected, inv.IsOverdue(tt.at))
		})
	}
}

func TestHoursOverdue(t *testing.T) {
	tests := []struct {
		name     string
		dueAt    int64
		at       int64
		expected int64
	}{
		{name: "not overdue", dueAt: now + 10, at: now, expected: 0},
		{name: "due on receipt", dueAt: 0, at: now, expected: 0},
		{name: "less than an hour", dueAt: now - 3599, at: now, expected: 0},
		{name: "exactly one hour", dueAt: now - 3600, at: now, expected: 1},
		{name: "ten and a half hours", dueAt: now - 37800, at: now, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice("100", "0.08", tt.dueAt)
			assert.Equal(t, tt.expected, inv.HoursOverdue(tt.at))
		})
	}
}

func TestOverdueFee(t *testing.T) {
	inv := newTestInvoice("1000", "0.08", now-10*3600)

	assert.Equal(t, "9132420091324200", inv.FeePerHour().String())
	assert.Equal(t, "91324200913242000", inv.OverdueFee(now).String())
	assert.Equal(t, "0.0913242", formatFee(inv.OverdueFee(now)))
	assert.Equal(t, "1000091324200913242000", inv.Outstanding(now).String())

	// fee grows one hour at a time
	assert.Equal(t, inv.OverdueFee(now).String(), inv.OverdueFee(now+3599).String())
	assert.Equal(t, "100456621004566200", inv.OverdueFee(now+3600).String())
}

func TestOverdueFeeZeroWhenNotOverdue(t *testing.T) {
	inv := newTestInvoice("1000", "0.08", now+3600)
	assert.True(t, inv.OverdueFee(now).IsZero())
	assert.Equal(t, fixedpoint.MustParseUnits("1000").String(), inv.Outstanding(now).String())

	// zero rate never accrues
	inv = newTestInvoice("1000", "0", now-100*3600)
	assert.True(t, inv.OverdueFee(now).IsZero())
}

func TestFeePerHourTruncatesToZero(t *testing.T) {
	inv := &Invoice{
		Principal:          decimal.NewFromInt(1000),
		AnnualInterestRate: fixedpoint.MustParseUnits("0.08"),
		DueAt:              now - 100*3600,
	}
	// 1000 * 0.08e18 / 1e18 = 80 base units, 80 / 8760 = 0
	assert.True(t, inv.FeePerHour().IsZero())
	assert.True(t, inv.OverdueFee(now).IsZero())
}

func TestOutstandingFrozenOnceSettled(t *testing.T) {
	inv := newTestInvoice("1000", "0.08", now-10*3600)
	_, err := inv.ApplyPayment(inv.Outstanding(now), now)
	assert.NoError(t, err)
	assert.True(t, inv.IsPaid)

	assert.True(t, inv.Outstanding(now).IsZero())
	assert.True(t, inv.Outstanding(now+1000*3600).IsZero())
}

// formatFee renders a fee truncated to 7 decimals for readable assertions
func formatFee(d decimal.Decimal) string {
	return fixedpoint.FormatUnitsTruncated(d, 7)
}
