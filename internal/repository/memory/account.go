package memory

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/domain/account"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
)

var _ account.Repository = (*AccountStore)(nil)

type AccountStore struct {
	*store[string, *account.Account]
}

func NewAccountStore() *AccountStore {
	return &AccountStore{store: newStore[string, *account.Account]()}
}

func (s *AccountStore) Get(ctx context.Context, address string) (*account.Account, error) {
	address = types.NormalizeAddress(address)
	acc, ok := s.get(address)
	if !ok {
		return account.NewAccount(address, types.GetDefaultBaseModel(ctx)), nil
	}
	c := *acc
	return &c, nil
}

func (s *AccountStore) Credit(ctx context.Context, address string, amount decimal.Decimal) (*account.Account, error) {
	acc, err := s.Get(ctx, address)
	if err != nil {
		return nil, err
	}

	acc.Credit(amount)
	acc.UpdatedBy = types.GetAccount(ctx)
	s.put(ctx, acc.Address, acc)

	c := *acc
	return &c, nil
}

func (s *AccountStore) Debit(ctx context.Context, address string, amount decimal.Decimal) (*account.Account, error) {
	acc, err := s.Get(ctx, address)
	if err != nil {
		return nil, err
	}

	if err := acc.Debit(amount); err != nil {
		return nil, err
	}
	acc.UpdatedBy = types.GetAccount(ctx)
	s.put(ctx, acc.Address, acc)

	c := *acc
	return &c, nil
}

// Clear removes all accounts, used between tests
func (s *AccountStore) Clear() {
	s.clear()
}
