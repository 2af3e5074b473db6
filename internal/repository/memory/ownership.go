package memory

import (
	"context"
	"sync"
	"time"

	"github.com/invoicebuild/invoicebuild/internal/domain/ownership"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

var _ ownership.Repository = (*OwnershipStore)(nil)

// OwnershipStore keeps tokens by id plus the per owner id lists
type OwnershipStore struct {
	mu      sync.Mutex
	supply  int64
	tokens  *store[int64, *ownership.Token]
	byOwner *store[string, []int64]
}

func NewOwnershipStore() *OwnershipStore {
	return &OwnershipStore{
		tokens:  newStore[int64, *ownership.Token](),
		byOwner: newStore[string, []int64](),
	}
}

func (s *OwnershipStore) Mint(ctx context.Context, owner string, tokenURI string) (*ownership.Token, error) {
	owner = types.NormalizeAddress(owner)
	if owner == "" {
		return nil, ierr.NewError("owner is required").
			WithHint("Owner address is required").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.supply++
	id := s.supply
	recordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.supply--
	})

	token := &ownership.Token{
		ID:       id,
		Owner:    owner,
		TokenURI: tokenURI,
		MintedAt: time.Now().UTC(),
	}
	s.tokens.insert(ctx, id, token)

	ids, _ := s.byOwner.get(owner)
	next := make([]int64, len(ids), len(ids)+1)
	copy(next, ids)
	s.byOwner.put(ctx, owner, append(next, id))

	c := *token
	return &c, nil
}

func (s *OwnershipStore) Get(ctx context.Context, id int64) (*ownership.Token, error) {
	token, ok := s.tokens.get(id)
	if !ok {
		return nil, ierr.NewError("token not found").
			WithHintf("Invoice %d does not exist", id).
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}
	c := *token
	return &c, nil
}

func (s *OwnershipStore) ListByOwner(ctx context.Context, owner string) ([]int64, error) {
	ids, _ := s.byOwner.get(types.NormalizeAddress(owner))
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *OwnershipStore) CountByOwner(ctx context.Context, owner string) (int64, error) {
	ids, _ := s.byOwner.get(types.NormalizeAddress(owner))
	return int64(len(ids)), nil
}

func (s *OwnershipStore) TotalSupply(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.supply, nil
}

// Clear resets the registry, used between tests
func (s *OwnershipStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supply = 0
	s.tokens.clear()
	s.byOwner.clear()
}
