package bolt

import (
	"context"
	"time"

	"github.com/boltdb/bolt"
	"github.com/invoicebuild/invoicebuild/internal/domain/account"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) account.Repository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, address string) (*account.Account, error) {
	var acc *account.Account
	err := r.db.view(ctx, func(tx *bolt.Tx) error {
		var err error
		acc, err = loadAccount(ctx, tx, address)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (r *accountRepository) Credit(ctx context.Context, address string, amount decimal.Decimal) (*account.Account, error) {
	return r.apply(ctx, address, func(acc *account.Account) error {
		acc.Credit(amount)
		return nil
	})
}

func (r *accountRepository) Debit(ctx context.Context, address string, amount decimal.Decimal) (*account.Account, error) {
	return r.apply(ctx, address, func(acc *account.Account) error {
		return acc.Debit(amount)
	})
}

// apply loads, changes and stores an account in one transaction. The record
// is only written when change succeeds.
func (r *accountRepository) apply(ctx context.Context, address string, change func(acc *account.Account) error) (*account.Account, error) {
	var acc *account.Account
	err := r.db.update(ctx, func(tx *bolt.Tx) error {
		var err error
		acc, err = loadAccount(ctx, tx, address)
		if err != nil {
			return err
		}
		if err := change(acc); err != nil {
			return err
		}
		acc.UpdatedAt = time.Now().UTC()
		acc.UpdatedBy = types.GetAccount(ctx)
		return put(tx.Bucket(bucketAccounts), []byte(acc.Address), acc)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func loadAccount(ctx context.Context, tx *bolt.Tx, address string) (*account.Account, error) {
	address = types.NormalizeAddress(address)
	data := tx.Bucket(bucketAccounts).Get([]byte(address))
	if data == nil {
		return account.NewAccount(address, types.GetDefaultBaseModel(ctx)), nil
	}

	var acc account.Account
	if err := decode(data, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
