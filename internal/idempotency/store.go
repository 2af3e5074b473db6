package idempotency

import (
	"context"
	"time"

	"github.com/invoicebuild/invoicebuild/internal/cache"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
)

type entry struct {
	fingerprint string
	value       interface{}
}

// Store remembers the result of requests submitted with a caller supplied
// key so a retried request returns the original result instead of running
// again
type Store struct {
	cache     cache.Cache
	generator *Generator
	ttl       time.Duration
}

func NewStore(c cache.Cache, ttl time.Duration) *Store {
	return &Store{
		cache:     c,
		generator: NewGenerator(),
		ttl:       ttl,
	}
}

// Lookup returns the remembered result for key. A key that was first used
// with different params fails with ErrAlreadyExists.
func (s *Store) Lookup(ctx context.Context, scope Scope, key string, params map[string]interface{}) (interface{}, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	raw, found := s.cache.Get(ctx, cacheKey(scope, key))
	if !found {
		return nil, false, nil
	}

	e := raw.(*entry)
	if !s.generator.ValidateKey(scope, params, e.fingerprint) {
		return nil, false, ierr.NewError("idempotency key reused").
			WithHint("This idempotency key was already used with different parameters").
			WithReportableDetails(map[string]any{"idempotency_key": key}).
			Mark(ierr.ErrAlreadyExists)
	}
	return e.value, true, nil
}

// Remember stores value as the result for key
func (s *Store) Remember(ctx context.Context, scope Scope, key string, params map[string]interface{}, value interface{}) {
	if key == "" {
		return
	}

	s.cache.Set(ctx, cacheKey(scope, key), &entry{
		fingerprint: s.generator.GenerateKey(scope, params),
		value:       value,
	}, s.ttl)
}

func cacheKey(scope Scope, key string) string {
	return cache.GenerateKey(cache.PrefixIdempotency, scope, key)
}
