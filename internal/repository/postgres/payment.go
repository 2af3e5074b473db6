package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/invoicebuild/invoicebuild/internal/domain/payment"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/postgres"
	"github.com/lib/pq"
)

// uniqueViolation is the postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").Mark(ierr.ErrValidation)
	}

	query := `
		INSERT INTO payments (
			id, invoice_id, payer, payee, amount, overdue_fee, outstanding_after,
			settled, paid_at, idempotency_key, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :invoice_id, :payer, :payee, :amount, :overdue_fee, :outstanding_after,
			:settled, :paid_at, :idempotency_key, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ierr.WithError(err).
				WithHintf("Payment %s already exists", p.ID).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to record payment").
			WithReportableDetails(map[string]any{"invoice_id": p.InvoiceID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, `SELECT * FROM payments WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("payment not found").
				WithHintf("Payment %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*payment.Payment, error) {
	payments := []*payment.Payment{}
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &payments,
		`SELECT * FROM payments WHERE invoice_id = $1 ORDER BY paid_at, id`, invoiceID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}
