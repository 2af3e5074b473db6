package service

import (
	"testing"

	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/invoicebuild/invoicebuild/internal/testutil"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AccountServiceSuite struct {
	serviceSuite
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) TestDepositAccumulates() {
	ctx := s.GetContext()
	s.fund("1.5")
	s.fund("2")

	resp, err := s.accounts.GetAccount(ctx, testutil.PayerAddress)
	s.Require().NoError(err)
	s.Equal("3.5", fixedpoint.FormatUnits(resp.Balance))
	s.Equal([]string{types.EventAccountDeposited, types.EventAccountDeposited}, s.GetPublisher().EventNames())
}

func (s *AccountServiceSuite) TestUnknownAccountIsEmpty() {
	resp, err := s.accounts.GetAccount(s.GetContext(), "0x9999999999999999999999999999999999999999")
	s.Require().NoError(err)
	s.True(resp.Balance.IsZero())
}

func (s *AccountServiceSuite) TestDepositValidation() {
	ctx := s.GetContext()

	_, err := s.accounts.Deposit(ctx, "not-an-address", dto.DepositRequest{Amount: decimal.NewFromInt(1)})
	s.True(ierr.IsValidation(err))

	_, err = s.accounts.Deposit(ctx, testutil.PayerAddress, dto.DepositRequest{Amount: decimal.NewFromInt(-1)})
	s.True(ierr.IsValueOutOfRange(err))

	_, err = s.accounts.Deposit(types.WithDisbursing(ctx), testutil.PayerAddress, dto.DepositRequest{Amount: decimal.NewFromInt(1)})
	s.True(ierr.IsInvalidOperation(err))
}

func (s *AccountServiceSuite) TestCustodyAccountIsReserved() {
	ctx := s.GetContext()

	_, err := s.accounts.Deposit(ctx, testutil.CustodyAddress, dto.DepositRequest{Amount: decimal.NewFromInt(5)})
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.invoices.CreateInvoice(testutil.AsAccount(ctx, testutil.CustodyAddress), dto.CreateInvoiceRequest{
		Amount:    fixedpoint.MustParseUnits("100"),
		Recipient: testutil.RecipientAddress,
	})
	s.True(ierr.IsInvalidOperation(err))

	custody, err := s.accounts.CustodyBalance(ctx)
	s.Require().NoError(err)
	s.True(custody.IsZero())

	supply, err := s.invoices.TotalSupply(ctx)
	s.Require().NoError(err)
	s.Zero(supply)
	s.Empty(s.GetPublisher().EventNames())
}

func (s *AccountServiceSuite) TestDepositIdempotencyKey() {
	ctx := s.GetContext()
	req := dto.DepositRequest{Amount: fixedpoint.MustParseUnits("5"), IdempotencyKey: "seed-1"}

	first, err := s.accounts.Deposit(ctx, testutil.PayerAddress, req)
	s.Require().NoError(err)
	replay, err := s.accounts.Deposit(ctx, testutil.PayerAddress, req)
	s.Require().NoError(err)
	s.Equal(first.Balance.String(), replay.Balance.String())

	resp, err := s.accounts.GetAccount(ctx, testutil.PayerAddress)
	s.Require().NoError(err)
	s.Equal("5", fixedpoint.FormatUnits(resp.Balance))
	s.Len(s.GetPublisher().EventNames(), 1)

	req.Amount = fixedpoint.MustParseUnits("6")
	_, err = s.accounts.Deposit(ctx, testutil.PayerAddress, req)
	s.True(ierr.IsAlreadyExists(err))
}
