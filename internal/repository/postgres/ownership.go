package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/invoicebuild/invoicebuild/internal/domain/ownership"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/postgres"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

type ownershipRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewOwnershipRepository keeps the supply counter in the single registry
// row. Bumping it takes a row lock that is held until commit, so ids are
// dense and rolled back mints leave no gap.
func NewOwnershipRepository(db *postgres.DB, logger *logger.Logger) ownership.Repository {
	return &ownershipRepository{db: db, logger: logger}
}

func (r *ownershipRepository) Mint(ctx context.Context, owner string, tokenURI string) (*ownership.Token, error) {
	owner = types.NormalizeAddress(owner)
	if owner == "" {
		return nil, ierr.NewError("owner is required").
			WithHint("Owner address is required").
			Mark(ierr.ErrValidation)
	}

	q := r.db.GetQuerier(ctx)

	var id int64
	if err := q.GetContext(ctx, &id, `UPDATE registry SET supply = supply + 1 WHERE id = 1 RETURNING supply`); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to allocate invoice id").
			Mark(ierr.ErrDatabase)
	}

	token := &ownership.Token{
		ID:       id,
		Owner:    owner,
		TokenURI: tokenURI,
		MintedAt: time.Now().UTC(),
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO owner_invoices (invoice_id, owner, token_uri, minted_at) VALUES ($1, $2, $3, $4)`,
		token.ID, token.Owner, token.TokenURI, token.MintedAt,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to record invoice owner").
			Mark(ierr.ErrDatabase)
	}

	r.logger.Debugw("minted invoice token", "invoice_id", id, "owner", owner)
	return token, nil
}

func (r *ownershipRepository) Get(ctx context.Context, id int64) (*ownership.Token, error) {
	var token ownership.Token
	err := r.db.GetQuerier(ctx).GetContext(ctx, &token,
		`SELECT invoice_id AS id, owner, token_uri, minted_at FROM owner_invoices WHERE invoice_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("token not found").
				WithHintf("Invoice %d does not exist", id).
				WithReportableDetails(map[string]any{"invoice_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice owner").
			Mark(ierr.ErrDatabase)
	}
	return &token, nil
}

func (r *ownershipRepository) ListByOwner(ctx context.Context, owner string) ([]int64, error) {
	ids := []int64{}
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &ids,
		`SELECT invoice_id FROM owner_invoices WHERE owner = $1 ORDER BY invoice_id`,
		types.NormalizeAddress(owner))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices of owner").
			Mark(ierr.ErrDatabase)
	}
	return ids, nil
}

func (r *ownershipRepository) CountByOwner(ctx context.Context, owner string) (int64, error) {
	var count int64
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count,
		`SELECT COUNT(*) FROM owner_invoices WHERE owner = $1`,
		types.NormalizeAddress(owner))
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices of owner").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *ownershipRepository) TotalSupply(ctx context.Context) (int64, error) {
	var supply int64
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &supply, `SELECT supply FROM registry WHERE id = 1`); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to read total supply").
			Mark(ierr.ErrDatabase)
	}
	return supply, nil
}
