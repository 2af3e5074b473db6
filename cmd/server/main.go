package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicebuild/invoicebuild/internal/api"
	v1 "github.com/invoicebuild/invoicebuild/internal/api/v1"
	"github.com/invoicebuild/invoicebuild/internal/cache"
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/idempotency"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	pubsubRouter "github.com/invoicebuild/invoicebuild/internal/pubsub/router"
	"github.com/invoicebuild/invoicebuild/internal/pyroscope"
	"github.com/invoicebuild/invoicebuild/internal/repository"
	"github.com/invoicebuild/invoicebuild/internal/sentry"
	"github.com/invoicebuild/invoicebuild/internal/service"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/invoicebuild/invoicebuild/internal/validator"
	"github.com/invoicebuild/invoicebuild/internal/webhook"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Idempotency
			provideIdempotencyStore,

			// Repositories and the unit of work spanning them
			repository.NewStores,

			// PubSub
			pubsubRouter.NewRouter,
		),
	)

	// Monitoring, started before the servers that report to it
	opts = append(opts, sentry.Module())

	// Webhook module (must be initialised before services)
	opts = append(opts, webhook.Module)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewInvoiceService,
			service.NewPaymentService,
			service.NewAccountService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	// Profiling
	opts = append(opts, pyroscope.Module())

	app := fx.New(opts...)
	app.Run()
}

func provideIdempotencyStore(cfg *config.Configuration) *idempotency.Store {
	return idempotency.NewStore(cache.NewInMemoryCache(cfg.Idempotency.TTL), cfg.Idempotency.TTL)
}

func provideHandlers(
	params service.ServiceParams,
	logger *logger.Logger,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	accountService service.AccountService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(logger),
		Invoice: v1.NewInvoiceHandler(invoiceService, params.Clock, logger),
		Payment: v1.NewPaymentHandler(paymentService, logger),
		Account: v1.NewAccountHandler(accountService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	webhookService *webhook.WebhookService,
	router *pubsubRouter.Router,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, webhookService, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address, "store", cfg.Store.Type)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	webhookService *webhook.WebhookService,
	logger *logger.Logger,
) {
	// Register handlers before starting the router
	if !webhookService.Register(router) {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting message router")
			go func() {
				if err := router.Run(); err != nil {
					logger.Errorw("message router failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping message router")
			if err := webhookService.Stop(ctx); err != nil {
				logger.Errorw("failed to stop webhook service", "error", err)
			}
			return router.Close()
		},
	})
}
