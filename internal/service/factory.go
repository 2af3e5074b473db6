package service

import (
	"sync"
	"time"

	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/domain/account"
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	"github.com/invoicebuild/invoicebuild/internal/domain/ownership"
	"github.com/invoicebuild/invoicebuild/internal/domain/payment"
	"github.com/invoicebuild/invoicebuild/internal/idempotency"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/txn"
	"github.com/invoicebuild/invoicebuild/internal/webhook/publisher"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     txn.Manager

	// Repositories
	InvoiceRepo   invoice.Repository
	OwnershipRepo ownership.Repository
	AccountRepo   account.Repository
	PaymentRepo   payment.Repository

	EventPublisher publisher.EventPublisher
	Idempotency    *idempotency.Store
	Disburser      Disburser

	// Clock supplies the execution time of payments
	Clock func() time.Time

	// StateLock serializes writers; readers take it shared so no view
	// observes a half applied operation
	StateLock *sync.RWMutex
}

// NewServiceParams creates a new ServiceParams, the ledger disburser and the
// wall clock are used by default
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db txn.Manager,
	invoiceRepo invoice.Repository,
	ownershipRepo ownership.Repository,
	accountRepo account.Repository,
	paymentRepo payment.Repository,
	eventPublisher publisher.EventPublisher,
	idempotencyStore *idempotency.Store,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		DB:             db,
		InvoiceRepo:    invoiceRepo,
		OwnershipRepo:  ownershipRepo,
		AccountRepo:    accountRepo,
		PaymentRepo:    paymentRepo,
		EventPublisher: eventPublisher,
		Idempotency:    idempotencyStore,
		Disburser:      NewLedgerDisburser(accountRepo),
		Clock:          func() time.Time { return time.Now().UTC() },
		StateLock:      &sync.RWMutex{},
	}
}

// Now is the service clock as unix seconds
func (p ServiceParams) Now() int64 {
	return p.Clock().Unix()
}
