// Package bolt keeps invoices, tokens, accounts and receipts in a single
// embedded bolt file. Records are JSON encoded and amounts marshal as decimal
// strings, so no precision is lost.
package bolt

import (
	"context"
	"encoding/binary"
	"os"

	"github.com/boltdb/bolt"
	"github.com/invoicebuild/invoicebuild/internal/config"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	jsoniter "github.com/json-iterator/go"
)

// json matches encoding/json so decimal values keep their string form
var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bucketInvoices   = []byte("invoices")
	bucketTokens     = []byte("tokens")
	bucketOwners     = []byte("owners")
	bucketAccounts   = []byte("accounts")
	bucketPayments   = []byte("payments")
	bucketPaymentIDs = []byte("payment_ids")
)

// DB is an open bolt file with every bucket created
type DB struct {
	*bolt.DB
	logger *logger.Logger
}

func Open(cfg *config.Configuration, logger *logger.Logger) (*DB, error) {
	db, err := bolt.Open(cfg.Bolt.Path, os.FileMode(0600), &bolt.Options{Timeout: cfg.Bolt.Timeout})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to open bolt file %s", cfg.Bolt.Path).
			Mark(ierr.ErrDatabase)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{
			bucketInvoices, bucketTokens, bucketOwners,
			bucketAccounts, bucketPayments, bucketPaymentIDs,
		} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, ierr.WithError(err).
			WithHint("Failed to create bolt buckets").
			Mark(ierr.ErrDatabase)
	}

	logger.Infow("opened bolt store", "path", cfg.Bolt.Path)
	return &DB{DB: db, logger: logger}, nil
}

// update runs fn in the unit of work carried by ctx or, outside one, in its
// own read write transaction. Errors returned by fn pass through unchanged.
func (db *DB) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if t, ok := fromContext(ctx); ok {
		return fn(t.tx)
	}

	var fnErr error
	err := db.Update(func(tx *bolt.Tx) error {
		fnErr = fn(tx)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit bolt transaction").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// view runs fn in the unit of work carried by ctx so reads observe its
// uncommitted writes
func (db *DB) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if t, ok := fromContext(ctx); ok {
		return fn(t.tx)
	}

	var fnErr error
	err := db.View(func(tx *bolt.Tx) error {
		fnErr = fn(tx)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read bolt store").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

func put(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode record").
			Mark(ierr.ErrSystem)
	}
	if err := b.Put(key, data); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to write record").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to decode record").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
