package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/httpclient"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/pubsub"
	pubsubRouter "github.com/invoicebuild/invoicebuild/internal/pubsub/router"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

// Handler interface for processing domain event messages
type Handler interface {
	RegisterHandler(router *pubsubRouter.Router)
}

// handler forwards every domain event to the configured webhook endpoint
type handler struct {
	pubSub pubsub.PubSub
	config *config.EventsConfig
	client httpclient.Client
	logger *logger.Logger
}

// NewHandler creates a new webhook forwarding handler
func NewHandler(
	pubSub pubsub.PubSub,
	cfg *config.Configuration,
	client httpclient.Client,
	logger *logger.Logger,
) (Handler, error) {
	return &handler{
		pubSub: pubSub,
		config: &cfg.Events,
		client: client,
		logger: logger,
	}, nil
}

func (h *handler) RegisterHandler(router *pubsubRouter.Router) {
	router.AddNoPublishHandler(
		"webhook_handler",
		h.config.Topic,
		h.pubSub,
		h.processMessage,
	)
}

// processMessage delivers a single domain event
func (h *handler) processMessage(msg *message.Message) error {
	ctx := msg.Context()

	var event types.DomainEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		h.logger.Errorw("failed to unmarshal domain event",
			"error", err,
			"message_uuid", msg.UUID,
		)
		return nil // Don't retry on unmarshal errors
	}

	req := &httpclient.Request{
		Method: http.MethodPost,
		URL:    h.config.Webhook.URL,
		Headers: map[string]string{
			"X-Event-ID":          event.ID,
			"X-Event-Name":        event.EventName,
			types.HeaderRequestID: event.RequestID,
		},
		Body: msg.Payload,
	}

	resp, err := h.client.Send(ctx, req)
	if err != nil {
		h.logger.Errorw("failed to send webhook",
			"error", err,
			"message_uuid", msg.UUID,
			"event", event.EventName,
		)
		return err
	}

	h.logger.Infow("webhook sent successfully",
		"message_uuid", msg.UUID,
		"event", event.EventName,
		"status_code", resp.StatusCode,
	)

	return nil
}
