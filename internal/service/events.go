package service

import (
	"context"
	"encoding/json"

	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceEventPayload is the body of invoice.* events
type InvoiceEventPayload struct {
	InvoiceID  int64           `json:"invoice_id"`
	Owner      string          `json:"owner"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	IsPaid     bool            `json:"is_paid"`
	LateFees   decimal.Decimal `json:"late_fees"`

	PaymentID        string           `json:"payment_id,omitempty"`
	PaymentAmount    *decimal.Decimal `json:"payment_amount,omitempty"`
	OutstandingAfter *decimal.Decimal `json:"outstanding_after,omitempty"`
}

// AccountEventPayload is the body of account.* events
type AccountEventPayload struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
}

// publishEvent is fire and forget: the state change already committed, a
// failed publish is logged and never surfaced to the caller
func (p ServiceParams) publishEvent(ctx context.Context, eventName string, payload interface{}) {
	if p.EventPublisher == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.Logger.Errorw("failed to marshal event payload", "event_name", eventName, "error", err)
		return
	}

	event := &types.DomainEvent{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT),
		EventName: eventName,
		Account:   types.GetAccount(ctx),
		RequestID: types.GetRequestID(ctx),
		Timestamp: p.Clock().UTC(),
		Payload:   json.RawMessage(data),
	}

	if err := p.EventPublisher.Publish(ctx, event); err != nil {
		p.Logger.Errorw("failed to publish event",
			"event_id", event.ID,
			"event_name", eventName,
			"error", err,
		)
	}
}
