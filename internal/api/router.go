package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/invoicebuild/invoicebuild/internal/api/v1"
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/rest/middleware"
	"github.com/invoicebuild/invoicebuild/internal/sentry"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Invoice *v1.InvoiceHandler
	Payment *v1.PaymentHandler
	Account *v1.AccountHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, sentrySvc *sentry.Service) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.PyroscopeMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(sentrySvc),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	v1Group.Use(middleware.AccountMiddleware, middleware.RateLimitMiddleware(cfg))
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)

		// point in time views, ?at=unix seconds
		invoices.GET("/:id/outstanding", handlers.Invoice.GetOutstanding)
		invoices.GET("/:id/overdue", handlers.Invoice.GetIsOverdue)
		invoices.GET("/:id/overdue-fee", handlers.Invoice.GetOverdueFee)

		invoices.GET("/:id/amount", handlers.Invoice.GetAmount)
		invoices.GET("/:id/balance", handlers.Invoice.GetBalance)
		invoices.GET("/:id/paid", handlers.Invoice.GetIsPaid)
		invoices.GET("/:id/due-at", handlers.Invoice.GetDueAt)
		invoices.GET("/:id/overdue-interest", handlers.Invoice.GetOverdueInterest)
		invoices.GET("/:id/late-fees", handlers.Invoice.GetLateFees)
		invoices.GET("/:id/token-uri", handlers.Invoice.GetTokenURI)
		invoices.GET("/:id/owner", handlers.Invoice.GetOwner)

		invoices.POST("/:id/payments", handlers.Payment.MakePayment)
		invoices.GET("/:id/payments", handlers.Payment.ListPayments)
	}

	router.GET("/payments/:id", handlers.Payment.GetPayment)

	owners := router.Group("/owners")
	{
		owners.GET("/:address/invoices", handlers.Invoice.ListOwnerInvoices)
		owners.GET("/:address/balance", handlers.Invoice.GetOwnerBalance)
	}

	router.GET("/supply", handlers.Invoice.GetTotalSupply)
	router.GET("/custody", handlers.Account.GetCustodyBalance)

	accounts := router.Group("/accounts")
	{
		accounts.POST("/:address/deposit", handlers.Account.Deposit)
		accounts.GET("/:address", handlers.Account.GetAccount)
	}
}
