package memory

import (
	"context"
	"sync"

	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/txn"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

var _ txn.Manager = (*TxManager)(nil)

// journal collects undo steps for the writes made inside one WithTx call
type journal struct {
	mu   sync.Mutex
	id   string
	undo []func()
}

func (j *journal) record(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, fn)
}

func (j *journal) rollback() {
	j.mu.Lock()
	steps := j.undo
	j.undo = nil
	j.mu.Unlock()

	for i := len(steps) - 1; i >= 0; i-- {
		steps[i]()
	}
}

// merge hands the undo steps of a committed nested unit to its parent
func (j *journal) merge(child *journal) {
	child.mu.Lock()
	steps := child.undo
	child.undo = nil
	child.mu.Unlock()

	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, steps...)
}

func journalFrom(ctx context.Context) (*journal, bool) {
	j, ok := ctx.Value(types.CtxDBTransaction).(*journal)
	return j, ok
}

// recordUndo registers fn with the unit of work in ctx, if any. Writes made
// outside WithTx are applied immediately and cannot be undone.
func recordUndo(ctx context.Context, fn func()) {
	if j, ok := journalFrom(ctx); ok {
		j.record(fn)
	}
}

// TxManager gives the in-memory stores all or nothing semantics by replaying
// undo steps in reverse on failure. It does not isolate concurrent units, the
// services serialize writers.
type TxManager struct {
	logger *logger.Logger
}

func NewTxManager(logger *logger.Logger) *TxManager {
	return &TxManager{logger: logger}
}

func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	parent, nested := journalFrom(ctx)

	j := &journal{id: types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TX)}
	txCtx := context.WithValue(ctx, types.CtxDBTransaction, j)

	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorw("panic in transaction", "tx_id", j.id, "panic", r)
			j.rollback()
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		m.logger.Debugw("rolling back transaction", "tx_id", j.id, "nested", nested, "error", err)
		j.rollback()
		return err
	}

	if nested {
		parent.merge(j)
	}
	return nil
}
