package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/invoicebuild/invoicebuild/internal/domain/account"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/postgres"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return &accountRepository{db: db, logger: logger}
}

func (r *accountRepository) Get(ctx context.Context, address string) (*account.Account, error) {
	address = types.NormalizeAddress(address)

	var acc account.Account
	err := r.db.GetQuerier(ctx).GetContext(ctx, &acc, `SELECT * FROM accounts WHERE address = $1`, address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.NewAccount(address, types.GetDefaultBaseModel(ctx)), nil
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get account").
			Mark(ierr.ErrDatabase)
	}
	return &acc, nil
}

func (r *accountRepository) Credit(ctx context.Context, address string, amount decimal.Decimal) (*account.Account, error) {
	address = types.NormalizeAddress(address)
	caller := types.GetAccount(ctx)
	now := time.Now().UTC()

	query := `
		INSERT INTO accounts (address, balance, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $3, $4, $4)
		ON CONFLICT (address) DO UPDATE SET
			balance = accounts.balance + EXCLUDED.balance,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
		RETURNING *`

	var acc account.Account
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &acc, query, address, amount, now, caller); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to credit account").
			WithReportableDetails(map[string]any{"address": address}).
			Mark(ierr.ErrDatabase)
	}

	r.logger.Debugw("credited account", "address", address, "amount", amount.String())
	return &acc, nil
}

// Debit only touches the row when the balance covers amount, a missing row
// means either no account or insufficient funds
func (r *accountRepository) Debit(ctx context.Context, address string, amount decimal.Decimal) (*account.Account, error) {
	address = types.NormalizeAddress(address)

	query := `
		UPDATE accounts SET
			balance = balance - $2,
			updated_at = $3,
			updated_by = $4
		WHERE address = $1 AND balance >= $2
		RETURNING *`

	var acc account.Account
	err := r.db.GetQuerier(ctx).GetContext(ctx, &acc, query, address, amount, time.Now().UTC(), types.GetAccount(ctx))
	if err == nil {
		return &acc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, ierr.WithError(err).
			WithHint("Failed to debit account").
			WithReportableDetails(map[string]any{"address": address}).
			Mark(ierr.ErrDatabase)
	}

	current, err := r.Get(ctx, address)
	if err != nil {
		return nil, err
	}
	return nil, account.ErrInsufficientFunds(address, current.Balance, amount)
}
