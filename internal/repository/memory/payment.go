package memory

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/domain/payment"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
)

var _ payment.Repository = (*PaymentStore)(nil)

type PaymentStore struct {
	*store[string, *payment.Payment]
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{store: newStore[string, *payment.Payment]()}
}

func (s *PaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").Mark(ierr.ErrValidation)
	}

	c := *p
	if !s.insert(ctx, p.ID, &c) {
		return ierr.NewError("payment already exists").
			WithHintf("Payment %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *PaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, ok := s.get(id)
	if !ok {
		return nil, ierr.NewError("payment not found").
			WithHintf("Payment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (s *PaymentStore) ListByInvoice(ctx context.Context, invoiceID int64) ([]*payment.Payment, error) {
	items := s.list(
		func(p *payment.Payment) bool { return p.InvoiceID == invoiceID },
		func(a, b *payment.Payment) bool {
			if a.PaidAt != b.PaidAt {
				return a.PaidAt < b.PaidAt
			}
			// ulids sort by creation time
			return a.ID < b.ID
		},
	)

	out := make([]*payment.Payment, 0, len(items))
	for _, p := range items {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

// Clear removes all payments, used between tests
func (s *PaymentStore) Clear() {
	s.clear()
}
