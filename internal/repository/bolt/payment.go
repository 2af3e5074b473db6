package bolt

import (
	"context"
	"sort"

	"github.com/boltdb/bolt"
	"github.com/invoicebuild/invoicebuild/internal/domain/payment"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
)

// Receipts live in a sub bucket per invoice, payment_ids maps a receipt id
// back to its invoice
type paymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").Mark(ierr.ErrValidation)
	}

	return r.db.update(ctx, func(tx *bolt.Tx) error {
		index := tx.Bucket(bucketPaymentIDs)
		if index.Get([]byte(p.ID)) != nil {
			return ierr.NewError("payment already exists").
				WithHintf("Payment %s already exists", p.ID).
				Mark(ierr.ErrAlreadyExists)
		}

		receipts, err := tx.Bucket(bucketPayments).CreateBucketIfNotExists(itob(p.InvoiceID))
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to open receipts of invoice").
				Mark(ierr.ErrDatabase)
		}
		if err := put(receipts, []byte(p.ID), p); err != nil {
			return err
		}
		if err := index.Put([]byte(p.ID), itob(p.InvoiceID)); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to index payment").
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.view(ctx, func(tx *bolt.Tx) error {
		invoiceKey := tx.Bucket(bucketPaymentIDs).Get([]byte(id))
		if invoiceKey == nil {
			return paymentNotFound(id)
		}
		receipts := tx.Bucket(bucketPayments).Bucket(invoiceKey)
		if receipts == nil {
			return paymentNotFound(id)
		}
		data := receipts.Get([]byte(id))
		if data == nil {
			return paymentNotFound(id)
		}
		return decode(data, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*payment.Payment, error) {
	payments := []*payment.Payment{}
	err := r.db.view(ctx, func(tx *bolt.Tx) error {
		receipts := tx.Bucket(bucketPayments).Bucket(itob(invoiceID))
		if receipts == nil {
			return nil
		}
		return receipts.ForEach(func(_, v []byte) error {
			var p payment.Payment
			if err := decode(v, &p); err != nil {
				return err
			}
			payments = append(payments, &p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(payments, func(i, j int) bool {
		if payments[i].PaidAt != payments[j].PaidAt {
			return payments[i].PaidAt < payments[j].PaidAt
		}
		return payments[i].ID < payments[j].ID
	})
	return payments, nil
}

func paymentNotFound(id string) error {
	return ierr.NewError("payment not found").
		WithHintf("Payment %s was not found", id).
		Mark(ierr.ErrNotFound)
}
