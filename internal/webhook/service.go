package webhook

import (
	"context"
	"fmt"

	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	pubsubRouter "github.com/invoicebuild/invoicebuild/internal/pubsub/router"
	"github.com/invoicebuild/invoicebuild/internal/webhook/handler"
	"github.com/invoicebuild/invoicebuild/internal/webhook/publisher"
)

// WebhookService orchestrates forwarding of domain events
type WebhookService struct {
	config    *config.Configuration
	publisher publisher.EventPublisher
	handler   handler.Handler
	logger    *logger.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(
	cfg *config.Configuration,
	publisher publisher.EventPublisher,
	h handler.Handler,
	l *logger.Logger,
) *WebhookService {
	return &WebhookService{
		config:    cfg,
		publisher: publisher,
		handler:   h,
		logger:    l,
	}
}

// Register attaches the forwarding handler to router when webhooks are enabled
func (s *WebhookService) Register(router *pubsubRouter.Router) bool {
	if !s.config.Events.Webhook.Enabled {
		s.logger.Info("webhook service disabled")
		return false
	}

	s.handler.RegisterHandler(router)
	s.logger.Infow("webhook handler registered", "url", s.config.Events.Webhook.URL)
	return true
}

// Stop closes the publisher
func (s *WebhookService) Stop(ctx context.Context) error {
	s.logger.Debug("stopping webhook service")

	if err := s.publisher.Close(); err != nil {
		s.logger.Errorw("failed to close event publisher", "error", err)
		return fmt.Errorf("failed to close event publisher: %w", err)
	}

	s.logger.Info("webhook service stopped successfully")
	return nil
}
