package service

import (
	"context"

	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

// lockForWrite rejects calls made from inside a disbursement before touching
// the lock, a reentrant writer would otherwise wait on itself
func (p ServiceParams) lockForWrite(ctx context.Context, op string) (func(), error) {
	if types.IsDisbursing(ctx) {
		return nil, ierr.NewError("reentrant call rejected").
			WithHintf("%s cannot be called while a payment is being forwarded", op).
			WithReportableDetails(map[string]any{"operation": op}).
			Mark(ierr.ErrInvalidOperation)
	}

	p.StateLock.Lock()
	return p.StateLock.Unlock, nil
}

// lockForRead takes the shared lock. Inside a disbursement the writer already
// holds it and every effect is final, so reads go through unlocked.
func (p ServiceParams) lockForRead(ctx context.Context) func() {
	if types.IsDisbursing(ctx) {
		return func() {}
	}

	p.StateLock.RLock()
	return p.StateLock.RUnlock
}

// rejectCustody refuses the custody account in any role but the intermediary
// of a payment, its balance must only move inside a disbursement
func (p ServiceParams) rejectCustody(address, role string) error {
	if types.NormalizeAddress(address) != types.NormalizeAddress(p.Config.Custody.Address) {
		return nil
	}
	return ierr.NewError("custody account rejected").
		WithHintf("The custody account cannot be used as %s", role).
		WithReportableDetails(map[string]any{"address": address, "role": role}).
		Mark(ierr.ErrInvalidOperation)
}

func requireAccount(ctx context.Context) (string, error) {
	account := types.GetAccount(ctx)
	if account == "" {
		return "", ierr.NewError("caller account is required").
			WithHintf("Set the %s header", types.HeaderAccount).
			Mark(ierr.ErrValidation)
	}
	return account, nil
}
