package testutil

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/types"
)

// Test accounts. Owner issues invoices, Payer settles them.
const (
	OwnerAddress     = "0xa11ce00000000000000000000000000000000001"
	PayerAddress     = "0xb0b0000000000000000000000000000000000002"
	RecipientAddress = "0xc0ffee0000000000000000000000000000000003"
	CustodyAddress   = "0xc057000000000000000000000000000000000099"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	ctx = types.SetAccount(ctx, OwnerAddress)
	return ctx
}

// AsAccount returns ctx with the caller replaced by address
func AsAccount(ctx context.Context, address string) context.Context {
	return types.SetAccount(ctx, address)
}
