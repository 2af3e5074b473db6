package types

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderAccount        = "X-Account-Address"
	HeaderIdempotencyKey = "Idempotency-Key"
)
