package service

import (
	"context"
	"sync"

	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/invoicebuild/invoicebuild/internal/testutil"
)

// serviceSuite wires the services over the memory stores of the base suite
type serviceSuite struct {
	testutil.BaseServiceTestSuite

	params   ServiceParams
	invoices InvoiceService
	payments PaymentService
	accounts AccountService
}

func (s *serviceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		DB:             s.GetDB(),
		InvoiceRepo:    stores.InvoiceRepo,
		OwnershipRepo:  stores.OwnershipRepo,
		AccountRepo:    stores.AccountRepo,
		PaymentRepo:    stores.PaymentRepo,
		EventPublisher: s.GetPublisher(),
		Idempotency:    s.GetIdempotencyStore(),
		Disburser:      NewLedgerDisburser(stores.AccountRepo),
		Clock:          s.Clock,
		StateLock:      &sync.RWMutex{},
	}
	s.rebuild()
}

// rebuild recreates the services after params were changed by a test
func (s *serviceSuite) rebuild() {
	s.invoices = NewInvoiceService(s.params)
	s.payments = NewPaymentService(s.params)
	s.accounts = NewAccountService(s.params)
}

func (s *serviceSuite) now() int64 {
	return s.GetNow().Unix()
}

func (s *serviceSuite) ownerCtx() context.Context {
	return s.GetContext()
}

func (s *serviceSuite) payerCtx() context.Context {
	return testutil.AsAccount(s.GetContext(), testutil.PayerAddress)
}

// createInvoice issues an invoice as the owner, amounts in human units
func (s *serviceSuite) createInvoice(amount, rate string, dueAt int64) int64 {
	req := dto.CreateInvoiceRequest{
		Amount:          fixedpoint.MustParseUnits(amount),
		Recipient:       testutil.RecipientAddress,
		DueAt:           dueAt,
		OverdueInterest: fixedpoint.MustParseUnits(rate),
		MetaURL:         "ipfs://invoice",
	}
	resp, err := s.invoices.CreateInvoice(s.ownerCtx(), req)
	s.Require().NoError(err)
	return resp.ID
}

// fund deposits amount human units into the payer account
func (s *serviceSuite) fund(amount string) {
	_, err := s.accounts.Deposit(s.GetContext(), testutil.PayerAddress, dto.DepositRequest{
		Amount: fixedpoint.MustParseUnits(amount),
	})
	s.Require().NoError(err)
}

func (s *serviceSuite) pay(id int64, amount string) (*dto.PaymentResponse, error) {
	return s.payments.MakePayment(s.payerCtx(), id, dto.MakePaymentRequest{
		Amount: fixedpoint.MustParseUnits(amount),
	})
}
