package bolt

import (
	"context"

	"github.com/boltdb/bolt"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/txn"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

var _ txn.Manager = (*TxManager)(nil)

// unit is the read write transaction shared by one WithTx call and every call
// nested inside it
type unit struct {
	id     string
	tx     *bolt.Tx
	failed bool
}

func fromContext(ctx context.Context) (*unit, bool) {
	u, ok := ctx.Value(types.CtxDBTransaction).(*unit)
	return u, ok
}

// TxManager maps a unit of work onto one bolt read write transaction. Bolt
// has no savepoints, so a nested call that fails marks the whole unit and the
// outermost call refuses to commit it.
type TxManager struct {
	db     *DB
	logger *logger.Logger
}

func NewTxManager(db *DB, logger *logger.Logger) *TxManager {
	return &TxManager{db: db, logger: logger}
}

func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if u, ok := fromContext(ctx); ok {
		if err := fn(ctx); err != nil {
			u.failed = true
			return err
		}
		return nil
	}

	tx, err := m.db.Begin(true)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to begin bolt transaction").
			Mark(ierr.ErrDatabase)
	}

	u := &unit{id: types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TX), tx: tx}
	txCtx := context.WithValue(ctx, types.CtxDBTransaction, u)

	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorw("panic in transaction", "tx_id", u.id, "panic", r)
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		m.logger.Debugw("rolling back transaction", "tx_id", u.id, "error", err)
		_ = tx.Rollback()
		return err
	}

	if u.failed {
		_ = tx.Rollback()
		return ierr.NewError("nested unit of work failed").
			WithHint("A nested operation failed and the transaction was rolled back").
			WithReportableDetails(map[string]any{"tx_id": u.id}).
			Mark(ierr.ErrDatabase)
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit bolt transaction").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
