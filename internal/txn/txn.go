// Package txn defines the unit of work shared by every store backend.
package txn

import (
	"context"
)

// Manager runs fn as one atomic unit. Every repository call made with the
// context handed to fn is committed together when fn returns nil and undone
// when it returns an error or panics. Nested calls join the outer unit. The
// memory and postgres managers can undo a failed nested call on its own, the
// bolt manager fails the whole unit.
type Manager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
