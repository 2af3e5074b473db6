package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	"github.com/invoicebuild/invoicebuild/internal/domain/payment"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "0x1111111111111111111111111111111111111111"
	bob   = "0x2222222222222222222222222222222222222222"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.Bolt.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := Open(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOwnershipMintSequence(t *testing.T) {
	ctx := context.Background()
	repo := NewOwnershipRepository(openTestDB(t))

	for _, owner := range []string{alice, bob, alice} {
		_, err := repo.Mint(ctx, owner, "ipfs://meta")
		require.NoError(t, err)
	}

	ids, err := repo.ListByOwner(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)

	count, err := repo.CountByOwner(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	supply, err := repo.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), supply)

	token, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, bob, token.Owner)
	assert.Equal(t, "ipfs://meta", token.TokenURI)

	_, err = repo.Get(ctx, 4)
	assert.True(t, ierr.IsNotFound(err))

	empty, err := repo.ListByOwner(ctx, "0x3333333333333333333333333333333333333333")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInvoiceRoundTripKeepsPrecision(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(openTestDB(t))

	inv := &invoice.Invoice{
		ID:                 1,
		Principal:          decimal.RequireFromString("1000000000000000000000"),
		RecipientRef:       bob,
		DueAt:              1_700_000_000,
		AnnualInterestRate: decimal.RequireFromString("80000000000000000"),
		PaidAmount:         decimal.Zero,
		LateFeesRecorded:   decimal.Zero,
	}
	require.NoError(t, repo.Create(ctx, inv))

	err := repo.Create(ctx, inv)
	assert.True(t, ierr.IsAlreadyExists(err))

	got, err := repo.GetForUpdate(ctx, 1)
	require.NoError(t, err)
	assert.True(t, inv.Principal.Equal(got.Principal))
	assert.True(t, inv.AnnualInterestRate.Equal(got.AnnualInterestRate))

	got.PaidAmount = decimal.RequireFromString("91324200913242000")
	got.IsPaid = true
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, again.IsPaid)
	assert.Equal(t, "91324200913242000", again.PaidAmount.String())

	err = repo.Update(ctx, &invoice.Invoice{ID: 7})
	assert.True(t, ierr.IsNotFound(err))
}

func TestAccountDebitRejectsOverdraft(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(openTestDB(t))

	acc, err := repo.Get(ctx, alice)
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())

	_, err = repo.Credit(ctx, alice, decimal.NewFromInt(500))
	require.NoError(t, err)

	_, err = repo.Debit(ctx, alice, decimal.NewFromInt(501))
	assert.True(t, ierr.IsInvalidOperation(err))

	acc, err = repo.Debit(ctx, alice, decimal.NewFromInt(200))
	require.NoError(t, err)
	assert.Equal(t, "300", acc.Balance.String())

	acc, err = repo.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "300", acc.Balance.String())
}

func TestPaymentsListedOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepository(openTestDB(t))

	for _, p := range []*payment.Payment{
		{ID: "pay_b", InvoiceID: 1, PaidAt: 200, Amount: decimal.NewFromInt(2)},
		{ID: "pay_a", InvoiceID: 1, PaidAt: 100, Amount: decimal.NewFromInt(1)},
		{ID: "pay_c", InvoiceID: 2, PaidAt: 50, Amount: decimal.NewFromInt(3)},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	err := repo.Create(ctx, &payment.Payment{ID: "pay_a", InvoiceID: 1})
	assert.True(t, ierr.IsAlreadyExists(err))

	list, err := repo.ListByInvoice(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "pay_a", list[0].ID)
	assert.Equal(t, "pay_b", list[1].ID)

	got, err := repo.Get(ctx, "pay_c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.InvoiceID)

	_, err = repo.Get(ctx, "pay_x")
	assert.True(t, ierr.IsNotFound(err))

	none, err := repo.ListByInvoice(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTxManagerRollsBackMint(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tm := NewTxManager(db, logger.NewNopLogger())
	owners := NewOwnershipRepository(db)
	accounts := NewAccountRepository(db)

	boom := errors.New("boom")
	err := tm.WithTx(ctx, func(ctx context.Context) error {
		if _, err := owners.Mint(ctx, alice, ""); err != nil {
			return err
		}
		if _, err := accounts.Credit(ctx, alice, decimal.NewFromInt(10)); err != nil {
			return err
		}
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	supply, err := owners.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), supply)

	acc, err := accounts.Get(ctx, alice)
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())

	// the id handed back by the rollback is reused
	token, err := owners.Mint(ctx, bob, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), token.ID)
}

func TestTxManagerFailedNestedUnitAbortsOuter(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tm := NewTxManager(db, logger.NewNopLogger())
	accounts := NewAccountRepository(db)

	err := tm.WithTx(ctx, func(ctx context.Context) error {
		if _, err := accounts.Credit(ctx, alice, decimal.NewFromInt(10)); err != nil {
			return err
		}
		nested := tm.WithTx(ctx, func(ctx context.Context) error {
			return errors.New("nested")
		})
		assert.Error(t, nested)
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrDatabase))

	acc, err := accounts.Get(ctx, alice)
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
}

func TestTxManagerCommits(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tm := NewTxManager(db, logger.NewNopLogger())
	accounts := NewAccountRepository(db)

	err := tm.WithTx(ctx, func(ctx context.Context) error {
		if _, err := accounts.Credit(ctx, alice, decimal.NewFromInt(10)); err != nil {
			return err
		}
		// reads inside the unit see its own writes
		acc, err := accounts.Get(ctx, alice)
		if err != nil {
			return err
		}
		assert.Equal(t, "10", acc.Balance.String())
		return nil
	})
	require.NoError(t, err)

	acc, err := accounts.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "10", acc.Balance.String())
}
