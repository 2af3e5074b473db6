package dto

import (
	"github.com/invoicebuild/invoicebuild/internal/domain/account"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/shopspring/decimal"
)

// DepositRequest funds an account, used to seed payer balances
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`

	// IdempotencyKey comes from the Idempotency-Key header
	IdempotencyKey string `json:"-"`
}

func (r *DepositRequest) Validate() error {
	return fixedpoint.ValidateUint256("amount", r.Amount)
}

type AccountResponse struct {
	*account.Account
}
