package postgres

import (
	"context"
	_ "embed"

	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
)

//go:embed schema.sql
var schema string

// Schema returns the DDL applied by Migrate
func Schema() string {
	return schema
}

// Migrate applies the schema. Every statement is idempotent so it is safe to
// run on each start.
func (db *DB) Migrate(ctx context.Context) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := db.GetQuerier(ctx).ExecContext(ctx, schema); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to apply database schema").
				Mark(ierr.ErrDatabase)
		}
		db.logger.Infow("database schema applied")
		return nil
	})
}
