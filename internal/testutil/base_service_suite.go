package testutil

import (
	"context"
	"time"

	"github.com/invoicebuild/invoicebuild/internal/cache"
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/domain/account"
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	"github.com/invoicebuild/invoicebuild/internal/domain/ownership"
	"github.com/invoicebuild/invoicebuild/internal/domain/payment"
	"github.com/invoicebuild/invoicebuild/internal/idempotency"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/repository/memory"
	"github.com/invoicebuild/invoicebuild/internal/txn"
	"github.com/invoicebuild/invoicebuild/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	InvoiceRepo   invoice.Repository
	OwnershipRepo ownership.Repository
	AccountRepo   account.Repository
	PaymentRepo   payment.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	stores      Stores
	publisher   *InMemoryPublisher
	db          txn.Manager
	idempotency *idempotency.Store
	logger      *logger.Logger
	config      *config.Configuration
	now         time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Custody.Address = CustodyAddress
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Unix(1_700_000_000, 0).UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		InvoiceRepo:   memory.NewInvoiceStore(),
		OwnershipRepo: memory.NewOwnershipStore(),
		AccountRepo:   memory.NewAccountStore(),
		PaymentRepo:   memory.NewPaymentStore(),
	}
	s.db = memory.NewTxManager(s.logger)
	s.publisher = NewInMemoryEventPublisher()
	s.idempotency = idempotency.NewStore(cache.NewInMemoryCache(time.Hour), s.config.Idempotency.TTL)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.InvoiceRepo.(*memory.InvoiceStore).Clear()
	s.stores.OwnershipRepo.(*memory.OwnershipStore).Clear()
	s.stores.AccountRepo.(*memory.AccountStore).Clear()
	s.stores.PaymentRepo.(*memory.PaymentStore).Clear()
	s.publisher.Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context, the caller is OwnerAddress
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetPublisher returns the recording event publisher
func (s *BaseServiceTestSuite) GetPublisher() *InMemoryPublisher {
	return s.publisher
}

// GetDB returns the transaction manager over the memory stores
func (s *BaseServiceTestSuite) GetDB() txn.Manager {
	return s.db
}

func (s *BaseServiceTestSuite) GetIdempotencyStore() *idempotency.Store {
	return s.idempotency
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// SetNow moves the test clock to the given unix time
func (s *BaseServiceTestSuite) SetNow(unix int64) {
	s.now = time.Unix(unix, 0).UTC()
}

// AdvanceTime moves the test clock forward
func (s *BaseServiceTestSuite) AdvanceTime(d time.Duration) {
	s.now = s.now.Add(d)
}

// Clock reads the test clock, it follows later SetNow and AdvanceTime calls
func (s *BaseServiceTestSuite) Clock() time.Time {
	return s.GetNow()
}
