package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/invoicebuild/invoicebuild/internal/testutil"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	serviceSuite
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) balanceOf(address string) decimal.Decimal {
	resp, err := s.accounts.GetAccount(s.GetContext(), address)
	s.Require().NoError(err)
	return resp.Balance
}

func (s *PaymentServiceSuite) outstanding(id int64) decimal.Decimal {
	out, err := s.invoices.InvoiceOutstanding(s.GetContext(), id, s.now())
	s.Require().NoError(err)
	return out
}

func (s *PaymentServiceSuite) TestScenarioB() {
	ctx := s.GetContext()
	s.fund("1000")
	id := s.createInvoice("1000", "0", 0)

	resp, err := s.pay(id, "150.5")
	s.Require().NoError(err)
	s.False(resp.InvoiceIsPaid)
	s.False(resp.Settled)
	s.Equal("849.5", fixedpoint.FormatUnits(s.outstanding(id)))

	// value is forwarded, custody holds nothing
	custody, err := s.accounts.CustodyBalance(ctx)
	s.NoError(err)
	s.True(custody.IsZero())
	s.Equal("150.5", fixedpoint.FormatUnits(s.balanceOf(testutil.OwnerAddress)))
	s.Equal("849.5", fixedpoint.FormatUnits(s.balanceOf(testutil.PayerAddress)))

	balance, err := s.invoices.InvoiceBalance(ctx, id)
	s.NoError(err)
	s.True(balance.IsZero())

	s.AdvanceTime(time.Hour)
	resp, err = s.pay(id, "849.5")
	s.Require().NoError(err)
	s.True(resp.InvoiceIsPaid)
	s.True(resp.Settled)
	s.True(resp.OutstandingAfter.IsZero())

	paid, err := s.invoices.IsPaid(ctx, id)
	s.NoError(err)
	s.True(paid)
	s.True(s.outstanding(id).IsZero())
	s.Equal("1000", fixedpoint.FormatUnits(s.balanceOf(testutil.OwnerAddress)))
}

func (s *PaymentServiceSuite) TestScenarioC() {
	ctx := s.GetContext()
	s.fund("2000")
	id := s.createInvoice("1000", "0.08", s.now()-10*3600)

	overdue, err := s.invoices.IsOverdue(ctx, id, s.now())
	s.NoError(err)
	s.True(overdue)

	resp, err := s.pay(id, "1000")
	s.Require().NoError(err)
	s.False(resp.InvoiceIsPaid)

	remaining := s.outstanding(id)
	s.Equal("91324200913242000", remaining.String())

	resp, err = s.payments.MakePayment(s.payerCtx(), id, dto.MakePaymentRequest{Amount: remaining})
	s.Require().NoError(err)
	s.True(resp.InvoiceIsPaid)

	lateFees, err := s.invoices.LateFees(ctx, id)
	s.NoError(err)
	s.Equal("91324200913242000", lateFees.String())
	s.Equal("0.09132", fixedpoint.FormatUnitsTruncated(lateFees, 5))
}

func (s *PaymentServiceSuite) TestSettlementFreezesLateFees() {
	ctx := s.GetContext()
	s.fund("2000")
	id := s.createInvoice("1000", "0.08", s.now()-10*3600)

	_, err := s.payments.MakePayment(s.payerCtx(), id, dto.MakePaymentRequest{Amount: s.outstanding(id)})
	s.Require().NoError(err)

	s.AdvanceTime(100 * time.Hour)
	fees, err := s.invoices.LateFees(ctx, id)
	s.NoError(err)
	s.Equal("91324200913242000", fees.String())

	out, err := s.invoices.InvoiceOutstanding(ctx, id, s.now())
	s.NoError(err)
	s.True(out.IsZero())
}

func (s *PaymentServiceSuite) TestExceedsOutstandingLeavesStateUnchanged() {
	ctx := s.GetContext()
	s.fund("2000")
	id := s.createInvoice("1000", "0", 0)

	before, err := s.invoices.GetInvoice(ctx, id)
	s.Require().NoError(err)

	_, err = s.pay(id, "1000.000000000000000001")
	s.Require().Error(err)
	s.True(ierr.IsExceedsOutstanding(err))

	after, err := s.invoices.GetInvoice(ctx, id)
	s.Require().NoError(err)
	s.True(before.PaidAmount.Equal(after.PaidAmount))
	s.Equal(before.IsPaid, after.IsPaid)
	s.Equal("2000", fixedpoint.FormatUnits(s.balanceOf(testutil.PayerAddress)))

	list, err := s.payments.ListPayments(ctx, id)
	s.NoError(err)
	s.Equal(0, list.Total)
}

func (s *PaymentServiceSuite) TestPaymentOnPaidInvoiceFails() {
	s.fund("2000")
	id := s.createInvoice("100", "0", 0)

	_, err := s.pay(id, "100")
	s.Require().NoError(err)

	_, err = s.pay(id, "1")
	s.Require().Error(err)
	s.True(ierr.IsAlreadyPaid(err))

	// a zero payment is still rejected once settled
	_, err = s.pay(id, "0")
	s.True(ierr.IsAlreadyPaid(err))
}

func (s *PaymentServiceSuite) TestPaidAmountIsMonotonic() {
	ctx := s.GetContext()
	s.fund("1000")
	id := s.createInvoice("1000", "0", 0)

	last := decimal.Zero
	for _, amount := range []string{"100", "0", "250", "5000", "649.999", "0.001"} {
		_, _ = s.pay(id, amount)

		inv, err := s.invoices.GetInvoice(ctx, id)
		s.Require().NoError(err)
		s.True(inv.PaidAmount.GreaterThanOrEqual(last))
		last = inv.PaidAmount
	}
	s.Equal("1000", fixedpoint.FormatUnits(last))
}

func (s *PaymentServiceSuite) TestUnknownInvoice() {
	s.fund("10")
	_, err := s.pay(99, "1")
	s.True(ierr.IsNotFound(err))

	_, err = s.payments.ListPayments(s.GetContext(), 99)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestInsufficientFundsRollsBack() {
	ctx := s.GetContext()
	s.fund("10")
	id := s.createInvoice("100", "0", 0)

	_, err := s.pay(id, "50")
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))

	inv, err := s.invoices.GetInvoice(ctx, id)
	s.Require().NoError(err)
	s.True(inv.PaidAmount.IsZero())
	s.Equal("10", fixedpoint.FormatUnits(s.balanceOf(testutil.PayerAddress)))
}

func (s *PaymentServiceSuite) TestFailedDisbursementRollsBack() {
	ctx := s.GetContext()
	s.fund("100")
	id := s.createInvoice("100", "0", 0)
	s.GetPublisher().Clear()

	s.params.Disburser = DisburserFunc(func(ctx context.Context, from, to string, amount decimal.Decimal) error {
		return errors.New("transfer rejected")
	})
	s.rebuild()

	_, err := s.pay(id, "100")
	s.Require().Error(err)
	s.True(errors.Is(err, ierr.ErrSystem))

	paid, err := s.invoices.IsPaid(ctx, id)
	s.NoError(err)
	s.False(paid)
	s.Equal("100", fixedpoint.FormatUnits(s.balanceOf(testutil.PayerAddress)))

	custody, err := s.accounts.CustodyBalance(ctx)
	s.NoError(err)
	s.True(custody.IsZero())

	list, err := s.payments.ListPayments(ctx, id)
	s.NoError(err)
	s.Empty(list.Items)
	s.Empty(s.GetPublisher().GetEvents())
}

func (s *PaymentServiceSuite) TestCustodyMustReturnToPriorBalance() {
	ctx := s.GetContext()
	s.fund("100")
	id := s.createInvoice("100", "0", 0)

	// forwards only half, custody keeps the rest
	ledger := NewLedgerDisburser(s.GetStores().AccountRepo)
	s.params.Disburser = DisburserFunc(func(ctx context.Context, from, to string, amount decimal.Decimal) error {
		return ledger.Disburse(ctx, from, to, amount.Div(decimal.NewFromInt(2)))
	})
	s.rebuild()

	_, err := s.pay(id, "100")
	s.Require().Error(err)
	s.True(errors.Is(err, ierr.ErrSystem))

	custody, err := s.accounts.CustodyBalance(ctx)
	s.NoError(err)
	s.True(custody.IsZero())
	s.True(s.balanceOf(testutil.OwnerAddress).IsZero())
}

func (s *PaymentServiceSuite) TestReentrantPaymentRejected() {
	ctx := s.GetContext()
	s.fund("300")
	id := s.createInvoice("100", "0", 0)
	other := s.createInvoice("100", "0", 0)

	var reentrantErr error
	var observedPaid decimal.Decimal
	ledger := NewLedgerDisburser(s.GetStores().AccountRepo)
	s.params.Disburser = DisburserFunc(func(ctx context.Context, from, to string, amount decimal.Decimal) error {
		// state is final before value leaves custody
		inv, err := s.invoices.GetInvoice(ctx, id)
		if err != nil {
			return err
		}
		observedPaid = inv.PaidAmount

		_, reentrantErr = s.payments.MakePayment(ctx, other, dto.MakePaymentRequest{Amount: amount})
		return ledger.Disburse(ctx, from, to, amount)
	})
	s.rebuild()

	_, err := s.pay(id, "40")
	s.Require().NoError(err)
	s.Require().Error(reentrantErr)
	s.True(ierr.IsInvalidOperation(reentrantErr))
	s.Equal("40", fixedpoint.FormatUnits(observedPaid))

	inv, err := s.invoices.GetInvoice(ctx, other)
	s.Require().NoError(err)
	s.True(inv.PaidAmount.IsZero())
}

func (s *PaymentServiceSuite) TestReentrantCreateRejected() {
	ctx := types.WithDisbursing(s.GetContext())
	_, err := s.invoices.CreateInvoice(ctx, dto.CreateInvoiceRequest{
		Amount:    fixedpoint.MustParseUnits("1"),
		Recipient: testutil.RecipientAddress,
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestIdempotencyKeyReplaysReceipt() {
	ctx := s.GetContext()
	s.fund("100")
	id := s.createInvoice("100", "0", 0)

	req := dto.MakePaymentRequest{Amount: fixedpoint.MustParseUnits("10"), IdempotencyKey: "key-1"}
	first, err := s.payments.MakePayment(s.payerCtx(), id, req)
	s.Require().NoError(err)

	second, err := s.payments.MakePayment(s.payerCtx(), id, req)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	inv, err := s.invoices.GetInvoice(ctx, id)
	s.Require().NoError(err)
	s.Equal("10", fixedpoint.FormatUnits(inv.PaidAmount))

	req.Amount = fixedpoint.MustParseUnits("20")
	_, err = s.payments.MakePayment(s.payerCtx(), id, req)
	s.Require().Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *PaymentServiceSuite) TestPaymentEventsAndReceipts() {
	ctx := s.GetContext()
	s.fund("100")
	id := s.createInvoice("100", "0", 0)
	s.GetPublisher().Clear()

	first, err := s.pay(id, "30")
	s.Require().NoError(err)
	s.AdvanceTime(time.Minute)
	second, err := s.pay(id, "70")
	s.Require().NoError(err)

	s.Equal([]string{
		types.EventInvoicePaymentReceived,
		types.EventInvoicePaymentReceived,
		types.EventInvoicePaid,
	}, s.GetPublisher().EventNames())

	list, err := s.payments.ListPayments(ctx, id)
	s.Require().NoError(err)
	s.Require().Equal(2, list.Total)
	s.Equal(first.ID, list.Items[0].ID)
	s.Equal(second.ID, list.Items[1].ID)
	s.Equal(types.NormalizeAddress(testutil.PayerAddress), list.Items[0].Payer)
	s.Equal(types.NormalizeAddress(testutil.OwnerAddress), list.Items[0].Payee)

	got, err := s.payments.GetPayment(ctx, second.ID)
	s.Require().NoError(err)
	s.True(got.Settled)
}

func (s *PaymentServiceSuite) TestPublishFailureDoesNotFailPayment() {
	s.fund("100")
	id := s.createInvoice("100", "0", 0)
	s.GetPublisher().FailWith(errors.New("bus down"))

	resp, err := s.pay(id, "100")
	s.Require().NoError(err)
	s.True(resp.InvoiceIsPaid)
}

func (s *PaymentServiceSuite) TestConcurrentPaymentsNeverOverpay() {
	s.fund("3000")
	id := s.createInvoice("1000", "0", 0)

	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
		rejected atomic.Int32
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.pay(id, "100")
			switch {
			case err == nil:
				accepted.Add(1)
			case ierr.IsAlreadyPaid(err):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(10), accepted.Load())
	s.Equal(int32(20), rejected.Load())

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), id)
	s.Require().NoError(err)
	s.True(inv.IsPaid)
	s.True(inv.PaidAmount.Equal(inv.Principal))

	receipts, err := s.payments.ListPayments(s.GetContext(), id)
	s.Require().NoError(err)
	s.Equal(10, receipts.Total)
	s.Equal("2000", fixedpoint.FormatUnits(s.balanceOf(testutil.PayerAddress)))
	s.Equal("1000", fixedpoint.FormatUnits(s.balanceOf(testutil.OwnerAddress)))
}

func (s *PaymentServiceSuite) TestCustodyCannotPay() {
	id := s.createInvoice("1000", "0", 0)
	custodyCtx := testutil.AsAccount(s.GetContext(), testutil.CustodyAddress)

	_, err := s.payments.MakePayment(custodyCtx, id, dto.MakePaymentRequest{
		Amount: fixedpoint.MustParseUnits("100"),
	})
	s.True(ierr.IsInvalidOperation(err))

	paid, err := s.invoices.IsPaid(s.GetContext(), id)
	s.Require().NoError(err)
	s.False(paid)
	s.True(s.outstanding(id).Equal(fixedpoint.MustParseUnits("1000")))
}
