package account

import (
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
)

// Account is a balance held by an address. Payers fund payments from it and
// invoice owners receive disbursements into it.
type Account struct {
	Address string          `db:"address" json:"address"`
	Balance decimal.Decimal `db:"balance" json:"balance"`

	types.BaseModel
}

// NewAccount returns an empty account for address
func NewAccount(address string, base types.BaseModel) *Account {
	return &Account{
		Address:   types.NormalizeAddress(address),
		Balance:   decimal.Zero,
		BaseModel: base,
	}
}

// Credit adds amount to the balance
func (a *Account) Credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

// Debit removes amount from the balance, failing without change on
// insufficient funds
func (a *Account) Debit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds(a.Address, a.Balance, amount)
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// ErrInsufficientFunds is shared by stores that debit in place
func ErrInsufficientFunds(address string, balance, amount decimal.Decimal) error {
	return ierr.NewError("insufficient funds").
		WithHint("Account balance is lower than the attached value").
		WithReportableDetails(map[string]any{
			"address": address,
			"balance": balance.String(),
			"amount":  amount.String(),
		}).
		Mark(ierr.ErrInvalidOperation)
}
