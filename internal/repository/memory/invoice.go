package memory

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
)

var _ invoice.Repository = (*InvoiceStore)(nil)

type InvoiceStore struct {
	*store[int64, *invoice.Invoice]
}

func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{store: newStore[int64, *invoice.Invoice]()}
}

func (s *InvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").Mark(ierr.ErrValidation)
	}

	if !s.insert(ctx, inv.ID, inv.Copy()) {
		return ierr.NewError("invoice already exists").
			WithHintf("Invoice %d already exists", inv.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InvoiceStore) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	inv, ok := s.get(id)
	if !ok {
		return nil, errInvoiceNotFound(id)
	}
	return inv.Copy(), nil
}

// GetForUpdate is Get; writers are serialized above the store
func (s *InvoiceStore) GetForUpdate(ctx context.Context, id int64) (*invoice.Invoice, error) {
	return s.Get(ctx, id)
}

func (s *InvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if _, ok := s.get(inv.ID); !ok {
		return errInvoiceNotFound(inv.ID)
	}
	s.put(ctx, inv.ID, inv.Copy())
	return nil
}

// Clear removes all invoices, used between tests
func (s *InvoiceStore) Clear() {
	s.clear()
}

func errInvoiceNotFound(id int64) error {
	return ierr.NewError("invoice not found").
		WithHintf("Invoice %d was not found", id).
		WithReportableDetails(map[string]any{"invoice_id": id}).
		Mark(ierr.ErrNotFound)
}
