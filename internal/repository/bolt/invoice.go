package bolt

import (
	"context"

	"github.com/boltdb/bolt"
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
)

type invoiceRepository struct {
	db *DB
}

func NewInvoiceRepository(db *DB) invoice.Repository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	return r.db.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketInvoices)
		if b.Get(itob(inv.ID)) != nil {
			return ierr.NewError("invoice already exists").
				WithHintf("Invoice %d already exists", inv.ID).
				Mark(ierr.ErrAlreadyExists)
		}
		return put(b, itob(inv.ID), inv)
	})
}

func (r *invoiceRepository) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.view(ctx, func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketInvoices).Get(itob(id))
		if data == nil {
			return notFound(id)
		}
		return decode(data, &inv)
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetForUpdate is Get, a bolt file admits one writer at a time
func (r *invoiceRepository) GetForUpdate(ctx context.Context, id int64) (*invoice.Invoice, error) {
	return r.Get(ctx, id)
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	return r.db.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketInvoices)
		if b.Get(itob(inv.ID)) == nil {
			return notFound(inv.ID)
		}
		return put(b, itob(inv.ID), inv)
	})
}

func notFound(id int64) error {
	return ierr.NewError("invoice not found").
		WithHintf("Invoice %d was not found", id).
		WithReportableDetails(map[string]any{"invoice_id": id}).
		Mark(ierr.ErrNotFound)
}
