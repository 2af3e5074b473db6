package payment

import (
	"context"
)

// Repository defines the interface for payment persistence
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	// ListByInvoice returns the receipts of an invoice oldest first
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*Payment, error)
}
