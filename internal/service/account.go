package service

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/idempotency"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/invoicebuild/invoicebuild/internal/validator"
	"github.com/shopspring/decimal"
)

// AccountService exposes the native balance ledger payments move value through
type AccountService interface {
	Deposit(ctx context.Context, address string, req dto.DepositRequest) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, address string) (*dto.AccountResponse, error)
	CustodyBalance(ctx context.Context) (decimal.Decimal, error)
}

type accountService struct {
	ServiceParams
}

func NewAccountService(params ServiceParams) AccountService {
	return &accountService{
		ServiceParams: params,
	}
}

func (s *accountService) Deposit(ctx context.Context, address string, req dto.DepositRequest) (*dto.AccountResponse, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if err := s.rejectCustody(address, "deposit target"); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock, err := s.lockForWrite(ctx, "deposit")
	if err != nil {
		return nil, err
	}
	defer unlock()

	params := map[string]interface{}{
		"address": types.NormalizeAddress(address),
		"amount":  req.Amount.String(),
	}
	if s.Idempotency != nil {
		prior, found, err := s.Idempotency.Lookup(ctx, idempotency.ScopeDeposit, req.IdempotencyKey, params)
		if err != nil {
			return nil, err
		}
		if found {
			s.Logger.Debugw("replaying deposit for idempotency key",
				"address", address,
				"idempotency_key", req.IdempotencyKey,
			)
			return prior.(*dto.AccountResponse), nil
		}
	}

	resp := &dto.AccountResponse{}
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		acc, err := s.AccountRepo.Credit(ctx, types.NormalizeAddress(address), req.Amount)
		if err != nil {
			return err
		}
		resp.Account = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("deposited funds",
		"address", resp.Address,
		"amount", req.Amount.String(),
		"balance", resp.Balance.String(),
	)

	s.publishEvent(ctx, types.EventAccountDeposited, &AccountEventPayload{
		Address: resp.Address,
		Amount:  req.Amount,
		Balance: resp.Balance,
	})

	if s.Idempotency != nil {
		s.Idempotency.Remember(ctx, idempotency.ScopeDeposit, req.IdempotencyKey, params, resp)
	}
	return resp, nil
}

func (s *accountService) GetAccount(ctx context.Context, address string) (*dto.AccountResponse, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	unlock := s.lockForRead(ctx)
	defer unlock()

	acc, err := s.AccountRepo.Get(ctx, types.NormalizeAddress(address))
	if err != nil {
		return nil, err
	}
	return &dto.AccountResponse{Account: acc}, nil
}

func (s *accountService) CustodyBalance(ctx context.Context) (decimal.Decimal, error) {
	unlock := s.lockForRead(ctx)
	defer unlock()

	acc, err := s.AccountRepo.Get(ctx, types.NormalizeAddress(s.Config.Custody.Address))
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

func validateAddress(address string) error {
	if err := validator.GetValidator().Var(address, "required,eth_addr"); err != nil {
		return ierr.WithError(err).
			WithHintf("%q is not a valid account address", address).
			WithReportableDetails(map[string]any{"address": address}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
