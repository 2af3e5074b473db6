package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/service"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// @Summary Pay an invoice
// @Description Apply the attached value to an invoice and forward it to the owner
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param X-Account-Address header string true "Payer address"
// @Param Idempotency-Key header string false "Replay protection key"
// @Param payment body dto.MakePaymentRequest true "Attached value"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /invoices/{id}/payments [post]
func (h *PaymentHandler) MakePayment(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.MakePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind payment request", "error", err)
		c.Error(bindError(err))
		return
	}
	req.IdempotencyKey = c.GetHeader(types.HeaderIdempotencyKey)

	resp, err := h.service.MakePayment(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List payments of an invoice
// @Tags Payments
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.ListResponse[payment.Payment]
// @Router /invoices/{id}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListPayments(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a payment by ID
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} payment.Payment
// @Failure 404 {object} middleware.ErrorResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Payment ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
