package invoice

import (
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice domain model. The terms (principal, recipient,
// due date, rate, metadata url) never change after creation, only the payment
// state does.
type Invoice struct {
	ID                 int64           `db:"id" json:"id"`
	Principal          decimal.Decimal `db:"principal" json:"principal"`
	RecipientRef       string          `db:"recipient_ref" json:"recipient_ref"`
	DueAt              int64           `db:"due_at" json:"due_at"`
	AnnualInterestRate decimal.Decimal `db:"annual_interest_rate" json:"annual_interest_rate"`
	MetaURL            string          `db:"meta_url" json:"meta_url"`

	PaidAmount       decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	IsPaid           bool            `db:"is_paid" json:"is_paid"`
	LateFeesRecorded decimal.Decimal `db:"late_fees_recorded" json:"late_fees_recorded"`
	PaidAt           int64           `db:"paid_at" json:"paid_at"`

	// WithdrawableBalance backs the invoiceBalance view. Payments are forwarded
	// to the owner synchronously so nothing credits it today.
	WithdrawableBalance decimal.Decimal `db:"withdrawable_balance" json:"withdrawable_balance"`

	types.BaseModel
}

// Terms are the caller supplied fields of a new invoice
type Terms struct {
	Principal          decimal.Decimal
	RecipientRef       string
	DueAt              int64
	AnnualInterestRate decimal.Decimal
	MetaURL            string
}

// Validate checks the terms against the encoding boundary first and the
// business rules second, so a negative principal is out of range while a zero
// principal is an invalid amount
func (t Terms) Validate() error {
	if err := fixedpoint.ValidateUint256("amount", t.Principal); err != nil {
		return err
	}
	if err := fixedpoint.ValidateUint256("overdue_interest", t.AnnualInterestRate); err != nil {
		return err
	}
	if t.DueAt < 0 {
		return ierr.NewError("value out-of-bounds").
			WithHint("due_at must not be negative").
			WithReportableDetails(map[string]any{"due_at": t.DueAt}).
			Mark(ierr.ErrValueOutOfRange)
	}
	if !t.Principal.IsPositive() {
		return ierr.NewError("amount too low").
			WithHint("Amount too low").
			WithReportableDetails(map[string]any{"amount": t.Principal.String()}).
			Mark(ierr.ErrInvalidAmount)
	}
	return nil
}

// New builds an open invoice for the given id
func New(id int64, terms Terms, base types.BaseModel) (*Invoice, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	return &Invoice{
		ID:                  id,
		Principal:           terms.Principal,
		RecipientRef:        types.NormalizeAddress(terms.RecipientRef),
		DueAt:               terms.DueAt,
		AnnualInterestRate:  terms.AnnualInterestRate,
		MetaURL:             terms.MetaURL,
		PaidAmount:          decimal.Zero,
		LateFeesRecorded:    decimal.Zero,
		WithdrawableBalance: decimal.Zero,
		BaseModel:           base,
	}, nil
}

// Settlement describes the effect of one accepted payment
type Settlement struct {
	Amount            decimal.Decimal
	OverdueFee        decimal.Decimal
	OutstandingBefore decimal.Decimal
	OutstandingAfter  decimal.Decimal
	Settled           bool
	At                int64
}

// ApplyPayment validates a payment made at the given unix time and applies it.
// The invoice is left untouched when an error is returned.
func (i *Invoice) ApplyPayment(amount decimal.Decimal, at int64) (*Settlement, error) {
	if i.IsPaid {
		return nil, ierr.NewError("invoice already paid").
			WithHint("Invoice already paid").
			WithReportableDetails(map[string]any{"invoice_id": i.ID}).
			Mark(ierr.ErrAlreadyPaid)
	}

	if err := fixedpoint.ValidateUint256("amount", amount); err != nil {
		return nil, err
	}

	fee := i.OverdueFee(at)
	owed := i.Principal.Add(fee)
	outstanding := owed.Sub(i.PaidAmount)
	if amount.GreaterThan(outstanding) {
		return nil, ierr.NewError("amount greater than remaining balance").
			WithHint("Amount greater than remaining balance").
			WithReportableDetails(map[string]any{
				"invoice_id":  i.ID,
				"amount":      amount.String(),
				"outstanding": outstanding.String(),
			}).
			Mark(ierr.ErrExceedsOutstanding)
	}

	i.PaidAmount = i.PaidAmount.Add(amount)
	if i.PaidAmount.GreaterThanOrEqual(owed) {
		i.IsPaid = true
		i.LateFeesRecorded = fee
		i.PaidAt = at
	}

	return &Settlement{
		Amount:            amount,
		OverdueFee:        fee,
		OutstandingBefore: outstanding,
		OutstandingAfter:  owed.Sub(i.PaidAmount),
		Settled:           i.IsPaid,
		At:                at,
	}, nil
}

// Copy returns a detached copy; decimals are immutable values so a shallow
// copy is enough
func (i *Invoice) Copy() *Invoice {
	c := *i
	return &c
}
