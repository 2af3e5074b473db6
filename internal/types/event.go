package types

import (
	"encoding/json"
	"time"
)

// DomainEvent is published on the event bus after a state change commits
type DomainEvent struct {
	ID        string          `json:"id"`
	EventName string          `json:"event_name"`
	Account   string          `json:"account"`
	RequestID string          `json:"request_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// invoice event names
const (
	EventInvoiceCreated         = "invoice.created"
	EventInvoicePaymentReceived = "invoice.payment.received"
	EventInvoicePaid            = "invoice.paid"
)

// account event names
const (
	EventAccountDeposited = "account.deposited"
)
