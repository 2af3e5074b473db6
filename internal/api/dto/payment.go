package dto

import (
	"github.com/invoicebuild/invoicebuild/internal/domain/payment"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/shopspring/decimal"
)

// MakePaymentRequest is the value attached to a payment, in base units
type MakePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`

	// IdempotencyKey comes from the Idempotency-Key header
	IdempotencyKey string `json:"-"`
}

func (r *MakePaymentRequest) Validate() error {
	return fixedpoint.ValidateUint256("amount", r.Amount)
}

// PaymentResponse is the receipt of an accepted payment plus the resulting
// invoice state
type PaymentResponse struct {
	*payment.Payment

	InvoicePaidAmount decimal.Decimal `json:"invoice_paid_amount"`
	InvoiceIsPaid     bool            `json:"invoice_is_paid"`
	LateFees          decimal.Decimal `json:"late_fees"`
}
