package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/postgres"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, principal, recipient_ref, due_at, annual_interest_rate, meta_url,
			paid_amount, is_paid, late_fees_recorded, paid_at, withdrawable_balance,
			created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :principal, :recipient_ref, :due_at, :annual_interest_rate, :meta_url,
			:paid_amount, :is_paid, :late_fees_recorded, :paid_at, :withdrawable_balance,
			:created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating invoice", "invoice_id", inv.ID)

	if _, err := r.db.NamedExecContext(ctx, query, inv); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	return r.get(ctx, `SELECT * FROM invoices WHERE id = $1`, id)
}

func (r *invoiceRepository) GetForUpdate(ctx context.Context, id int64) (*invoice.Invoice, error) {
	return r.get(ctx, `SELECT * FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *invoiceRepository) get(ctx context.Context, query string, id int64) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("Invoice %d was not found", id).
				WithReportableDetails(map[string]any{"invoice_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices SET
			paid_amount = :paid_amount,
			is_paid = :is_paid,
			late_fees_recorded = :late_fees_recorded,
			paid_at = :paid_at,
			withdrawable_balance = :withdrawable_balance,
			updated_at = NOW(),
			updated_by = :updated_by
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice %d was not found", inv.ID).
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
