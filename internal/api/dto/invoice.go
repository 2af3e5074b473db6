package dto

import (
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	"github.com/invoicebuild/invoicebuild/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents the request payload for creating a new invoice.
// Amounts are base units with 18 decimals.
type CreateInvoiceRequest struct {
	// amount is the principal owed
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`

	// recipient is an informational address, it is not used for authorization
	Recipient string `json:"recipient" validate:"required,eth_addr"`

	// due_at is a unix timestamp in seconds, 0 means due on receipt
	DueAt int64 `json:"due_at"`

	// overdue_interest is the annual rate applied once overdue, 0.08 is 80000000000000000
	OverdueInterest decimal.Decimal `json:"overdue_interest" swaggertype:"string"`

	// meta_url is an opaque metadata location returned as the token uri
	MetaURL string `json:"meta_url" validate:"omitempty,max=2048"`
}

// Validate checks the terms before the field formats, so a zero amount is
// reported as too low whatever else is wrong with the request
func (r *CreateInvoiceRequest) Validate() error {
	if err := r.ToTerms().Validate(); err != nil {
		return err
	}
	return validator.ValidateRequest(r)
}

func (r *CreateInvoiceRequest) ToTerms() invoice.Terms {
	return invoice.Terms{
		Principal:          r.Amount,
		RecipientRef:       r.Recipient,
		DueAt:              r.DueAt,
		AnnualInterestRate: r.OverdueInterest,
		MetaURL:            r.MetaURL,
	}
}

// InvoiceResponse is the stored invoice together with its owner
type InvoiceResponse struct {
	*invoice.Invoice

	Owner    string `json:"owner"`
	TokenURI string `json:"token_uri"`
}

// InvoiceSummaryResponse collects every per invoice view at one point in time
type InvoiceSummaryResponse struct {
	ID              int64           `json:"id"`
	Owner           string          `json:"owner"`
	TokenURI        string          `json:"token_uri"`
	Recipient       string          `json:"recipient"`
	Amount          decimal.Decimal `json:"amount"`
	DueAt           int64           `json:"due_at"`
	OverdueInterest decimal.Decimal `json:"overdue_interest"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	IsPaid          bool            `json:"is_paid"`
	LateFees        decimal.Decimal `json:"late_fees"`
	InvoiceBalance  decimal.Decimal `json:"invoice_balance"`

	At           int64           `json:"at"`
	IsOverdue    bool            `json:"is_overdue"`
	HoursOverdue int64           `json:"hours_overdue"`
	FeePerHour   decimal.Decimal `json:"fee_per_hour"`
	OverdueFee   decimal.Decimal `json:"overdue_fee"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

// NewInvoiceSummaryResponse evaluates the time dependent views of inv at t
func NewInvoiceSummaryResponse(inv *invoice.Invoice, owner, tokenURI string, t int64) *InvoiceSummaryResponse {
	return &InvoiceSummaryResponse{
		ID:              inv.ID,
		Owner:           owner,
		TokenURI:        tokenURI,
		Recipient:       inv.RecipientRef,
		Amount:          inv.Principal,
		DueAt:           inv.DueAt,
		OverdueInterest: inv.AnnualInterestRate,
		PaidAmount:      inv.PaidAmount,
		IsPaid:          inv.IsPaid,
		LateFees:        inv.LateFeesRecorded,
		InvoiceBalance:  inv.WithdrawableBalance,
		At:              t,
		IsOverdue:       inv.IsOverdue(t),
		HoursOverdue:    inv.HoursOverdue(t),
		FeePerHour:      inv.FeePerHour(),
		OverdueFee:      inv.OverdueFee(t),
		Outstanding:     inv.Outstanding(t),
	}
}
