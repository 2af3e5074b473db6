package payment

import (
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
)

// Payment is the receipt of one accepted payment against an invoice
type Payment struct {
	// ID is the payment identifier, pay_<ulid>
	ID string `db:"id" json:"id"`
	// InvoiceID is the invoice the value was applied to
	InvoiceID int64 `db:"invoice_id" json:"invoice_id"`
	// Payer is the account that attached the value
	Payer string `db:"payer" json:"payer"`
	// Payee is the invoice owner the value was forwarded to
	Payee string `db:"payee" json:"payee"`
	// Amount is the attached value in base units
	Amount decimal.Decimal `db:"amount" json:"amount"`
	// OverdueFee is the fee accrued at the time of payment
	OverdueFee decimal.Decimal `db:"overdue_fee" json:"overdue_fee"`
	// OutstandingAfter is what remained owed once this payment was applied
	OutstandingAfter decimal.Decimal `db:"outstanding_after" json:"outstanding_after"`
	// Settled is true for the payment that marked the invoice paid
	Settled bool `db:"settled" json:"settled"`
	// PaidAt is the unix time the payment was applied at
	PaidAt int64 `db:"paid_at" json:"paid_at"`
	// IdempotencyKey is the caller supplied key, if any
	IdempotencyKey string `db:"idempotency_key" json:"idempotency_key,omitempty"`

	types.BaseModel
}

// FromSettlement builds the receipt for a settlement computed by the invoice
func FromSettlement(inv *invoice.Invoice, payee, payer string, s *invoice.Settlement, base types.BaseModel) *Payment {
	return &Payment{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:        inv.ID,
		Payer:            types.NormalizeAddress(payer),
		Payee:            types.NormalizeAddress(payee),
		Amount:           s.Amount,
		OverdueFee:       s.OverdueFee,
		OutstandingAfter: s.OutstandingAfter,
		Settled:          s.Settled,
		PaidAt:           s.At,
		BaseModel:        base,
	}
}
