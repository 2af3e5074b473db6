package webhook

import (
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/httpclient"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/pubsub"
	"github.com/invoicebuild/invoicebuild/internal/pubsub/kafka"
	"github.com/invoicebuild/invoicebuild/internal/pubsub/memory"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/invoicebuild/invoicebuild/internal/webhook/handler"
	"github.com/invoicebuild/invoicebuild/internal/webhook/publisher"
	"go.uber.org/fx"
)

// Module provides all event delivery dependencies
var Module = fx.Options(
	fx.Provide(
		providePubSub,
		publisher.NewPublisher,
		provideClient,
		handler.NewHandler,
		NewWebhookService,
	),
)

func provideClient(cfg *config.Configuration, logger *logger.Logger) httpclient.Client {
	clientCfg := httpclient.DefaultClientConfig()
	if cfg.Events.Webhook.Timeout > 0 {
		clientCfg.Timeout = cfg.Events.Webhook.Timeout
	}
	return httpclient.NewDefaultClient(clientCfg, logger)
}

// providePubSub picks the event transport, events stay in process unless a
// broker is configured
func providePubSub(cfg *config.Configuration, logger *logger.Logger) (pubsub.PubSub, error) {
	if cfg.Events.Transport == types.EventTransportKafka {
		return kafka.NewPubSub(cfg, logger)
	}
	return memory.NewPubSub(cfg, logger), nil
}
