package types

import (
	"context"
	"strings"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxAccount       ContextKey = "ctx_account"
	CtxDBTransaction ContextKey = "ctx_db_transaction"
	CtxDisbursing    ContextKey = "ctx_disbursing"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetAccount returns the address of the caller, the account that signs
// creations and attaches value to payments
func GetAccount(ctx context.Context) string {
	if account, ok := ctx.Value(CtxAccount).(string); ok {
		return account
	}
	return ""
}

// SetAccount stores the caller address in normalized form
func SetAccount(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, CtxAccount, NormalizeAddress(address))
}

// SetRequestID sets the request ID in the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

// WithDisbursing marks the context as being inside an outbound fund transfer.
// Payments started from such a context are rejected.
func WithDisbursing(ctx context.Context) context.Context {
	return context.WithValue(ctx, CtxDisbursing, true)
}

// IsDisbursing reports whether the context was derived from an outbound transfer
func IsDisbursing(ctx context.Context) bool {
	if v, ok := ctx.Value(CtxDisbursing).(bool); ok {
		return v
	}
	return false
}

// NormalizeAddress lower-cases an account address so lookups are case insensitive
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
