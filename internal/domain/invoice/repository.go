package invoice

import (
	"context"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create stores a new invoice under the id minted by the ownership registry
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by ID
	Get(ctx context.Context, id int64) (*Invoice, error)

	// GetForUpdate retrieves an invoice and, where the backend supports it,
	// locks it until the surrounding transaction ends
	GetForUpdate(ctx context.Context, id int64) (*Invoice, error)

	// Update persists the mutable payment state of an invoice
	Update(ctx context.Context, invoice *Invoice) error
}
