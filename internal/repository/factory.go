// Package repository selects the store backend named by the configuration.
package repository

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/domain/account"
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	"github.com/invoicebuild/invoicebuild/internal/domain/ownership"
	"github.com/invoicebuild/invoicebuild/internal/domain/payment"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/postgres"
	boltRepo "github.com/invoicebuild/invoicebuild/internal/repository/bolt"
	"github.com/invoicebuild/invoicebuild/internal/repository/memory"
	postgresRepo "github.com/invoicebuild/invoicebuild/internal/repository/postgres"
	"github.com/invoicebuild/invoicebuild/internal/sentry"
	"github.com/invoicebuild/invoicebuild/internal/txn"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"go.uber.org/fx"
)

// Stores are the repositories of one backend together with the unit of work
// manager that spans them
type Stores struct {
	fx.Out

	DB            txn.Manager
	InvoiceRepo   invoice.Repository
	OwnershipRepo ownership.Repository
	AccountRepo   account.Repository
	PaymentRepo   payment.Repository
}

// NewStores opens the configured backend and closes it when the app stops
func NewStores(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger, sentrySvc *sentry.Service) (Stores, error) {
	var (
		stores Stores
		closer func() error
	)

	switch cfg.Store.Type {
	case types.StoreTypeMemory:
		stores = NewMemoryStores(log)

	case types.StoreTypePostgres:
		db, err := postgres.NewDB(cfg, log)
		if err != nil {
			return Stores{}, err
		}
		if cfg.Postgres.AutoMigrate {
			if err := db.Migrate(context.Background()); err != nil {
				_ = db.Close()
				return Stores{}, err
			}
		}
		stores = Stores{
			DB:            db,
			InvoiceRepo:   postgresRepo.NewInvoiceRepository(db, log),
			OwnershipRepo: postgresRepo.NewOwnershipRepository(db, log),
			AccountRepo:   postgresRepo.NewAccountRepository(db, log),
			PaymentRepo:   postgresRepo.NewPaymentRepository(db, log),
		}
		closer = db.Close

	case types.StoreTypeBolt:
		db, err := boltRepo.Open(cfg, log)
		if err != nil {
			return Stores{}, err
		}
		stores = Stores{
			DB:            boltRepo.NewTxManager(db, log),
			InvoiceRepo:   boltRepo.NewInvoiceRepository(db),
			OwnershipRepo: boltRepo.NewOwnershipRepository(db),
			AccountRepo:   boltRepo.NewAccountRepository(db),
			PaymentRepo:   boltRepo.NewPaymentRepository(db),
		}
		closer = db.Close

	default:
		return Stores{}, ierr.NewError("unknown store type").
			WithHintf("Store type %q is not supported", cfg.Store.Type).
			Mark(ierr.ErrValidation)
	}

	stores.DB = txn.WithSentry(stores.DB, sentrySvc)

	if closer != nil && lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Infow("closing store", "type", cfg.Store.Type)
				return closer()
			},
		})
	}

	log.Infow("store ready", "type", cfg.Store.Type)
	return stores, nil
}

// NewMemoryStores returns empty in-memory repositories
func NewMemoryStores(log *logger.Logger) Stores {
	return Stores{
		DB:            memory.NewTxManager(log),
		InvoiceRepo:   memory.NewInvoiceStore(),
		OwnershipRepo: memory.NewOwnershipStore(),
		AccountRepo:   memory.NewAccountStore(),
		PaymentRepo:   memory.NewPaymentStore(),
	}
}
