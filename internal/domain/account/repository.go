package account

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for account balance persistence
type Repository interface {
	// Get returns the account for address. Unknown addresses yield an empty
	// account rather than a not found error.
	Get(ctx context.Context, address string) (*Account, error)

	// Credit adds amount to the balance of address, opening the account if needed
	Credit(ctx context.Context, address string, amount decimal.Decimal) (*Account, error)

	// Debit removes amount from the balance of address. It fails with
	// ErrInvalidOperation when the balance is too low.
	Debit(ctx context.Context, address string, amount decimal.Decimal) (*Account, error)
}
