package account

import (
	"testing"

	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountDebit(t *testing.T) {
	acc := NewAccount("0xABC", types.BaseModel{})
	assert.Equal(t, "0xabc", acc.Address)

	acc.Credit(decimal.NewFromInt(100))
	require.NoError(t, acc.Debit(decimal.NewFromInt(40)))
	assert.Equal(t, "60", acc.Balance.String())

	err := acc.Debit(decimal.NewFromInt(61))
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
	assert.Equal(t, "60", acc.Balance.String())
}
