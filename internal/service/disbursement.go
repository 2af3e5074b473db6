package service

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/domain/account"
	"github.com/shopspring/decimal"
)

// Disburser moves value out of custody. It is the one call during a payment
// where control leaves the core, so every state change is made before it runs
// and the context it receives is marked as disbursing.
type Disburser interface {
	Disburse(ctx context.Context, from, to string, amount decimal.Decimal) error
}

// DisburserFunc adapts a function to Disburser
type DisburserFunc func(ctx context.Context, from, to string, amount decimal.Decimal) error

func (f DisburserFunc) Disburse(ctx context.Context, from, to string, amount decimal.Decimal) error {
	return f(ctx, from, to, amount)
}

type ledgerDisburser struct {
	accounts account.Repository
}

// NewLedgerDisburser transfers between account balances in the same store,
// so the transfer commits or rolls back with the payment
func NewLedgerDisburser(accounts account.Repository) Disburser {
	return &ledgerDisburser{accounts: accounts}
}

func (d *ledgerDisburser) Disburse(ctx context.Context, from, to string, amount decimal.Decimal) error {
	if _, err := d.accounts.Debit(ctx, from, amount); err != nil {
		return err
	}
	_, err := d.accounts.Credit(ctx, to, amount)
	return err
}
