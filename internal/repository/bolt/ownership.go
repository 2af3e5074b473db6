package bolt

import (
	"context"
	"time"

	"github.com/boltdb/bolt"
	"github.com/invoicebuild/invoicebuild/internal/domain/ownership"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

type ownershipRepository struct {
	db *DB
}

// NewOwnershipRepository uses the sequence of the tokens bucket as the supply
// counter. The sequence is part of the transaction, so a rolled back mint
// gives its id back.
func NewOwnershipRepository(db *DB) ownership.Repository {
	return &ownershipRepository{db: db}
}

func (r *ownershipRepository) Mint(ctx context.Context, owner string, tokenURI string) (*ownership.Token, error) {
	owner = types.NormalizeAddress(owner)
	if owner == "" {
		return nil, ierr.NewError("owner is required").
			WithHint("Owner address is required").
			Mark(ierr.ErrValidation)
	}

	var token *ownership.Token
	err := r.db.update(ctx, func(tx *bolt.Tx) error {
		tokens := tx.Bucket(bucketTokens)
		seq, err := tokens.NextSequence()
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to allocate invoice id").
				Mark(ierr.ErrDatabase)
		}

		token = &ownership.Token{
			ID:       int64(seq),
			Owner:    owner,
			TokenURI: tokenURI,
			MintedAt: time.Now().UTC(),
		}
		if err := put(tokens, itob(token.ID), token); err != nil {
			return err
		}

		owners := tx.Bucket(bucketOwners)
		ids, err := ownedIDs(owners, owner)
		if err != nil {
			return err
		}
		return put(owners, []byte(owner), append(ids, token.ID))
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (r *ownershipRepository) Get(ctx context.Context, id int64) (*ownership.Token, error) {
	var token ownership.Token
	err := r.db.view(ctx, func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketTokens).Get(itob(id))
		if data == nil {
			return ierr.NewError("token not found").
				WithHintf("Invoice %d does not exist", id).
				WithReportableDetails(map[string]any{"invoice_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return decode(data, &token)
	})
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *ownershipRepository) ListByOwner(ctx context.Context, owner string) ([]int64, error) {
	var ids []int64
	err := r.db.view(ctx, func(tx *bolt.Tx) error {
		var err error
		ids, err = ownedIDs(tx.Bucket(bucketOwners), types.NormalizeAddress(owner))
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ownershipRepository) CountByOwner(ctx context.Context, owner string) (int64, error) {
	ids, err := r.ListByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (r *ownershipRepository) TotalSupply(ctx context.Context) (int64, error) {
	var supply int64
	err := r.db.view(ctx, func(tx *bolt.Tx) error {
		supply = int64(tx.Bucket(bucketTokens).Sequence())
		return nil
	})
	return supply, err
}

// ownedIDs never returns nil so callers can append and encode safely
func ownedIDs(b *bolt.Bucket, owner string) ([]int64, error) {
	ids := []int64{}
	data := b.Get([]byte(owner))
	if data == nil {
		return ids, nil
	}
	if err := decode(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
