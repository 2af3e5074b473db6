package ownership

import (
	"context"
)

// Repository is the registry of invoice tokens. It owns the supply counter and
// the per owner index. There is no transfer operation so the owner of a token
// never changes.
type Repository interface {
	// Mint assigns the next id to owner and records the token uri
	Mint(ctx context.Context, owner string, tokenURI string) (*Token, error)

	// Get returns the token for id or ErrNotFound
	Get(ctx context.Context, id int64) (*Token, error)

	// ListByOwner returns the ids owned by owner in creation order
	ListByOwner(ctx context.Context, owner string) ([]int64, error)

	// CountByOwner is the number of tokens owned by owner
	CountByOwner(ctx context.Context, owner string) (int64, error)

	// TotalSupply is the number of tokens minted so far
	TotalSupply(ctx context.Context) (int64, error)
}
