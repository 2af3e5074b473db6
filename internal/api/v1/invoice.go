package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/service"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/invoicebuild/invoicebuild/internal/validator"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	clock          func() time.Time
	logger         *logger.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, clock func() time.Time, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		clock:          clock,
		logger:         logger,
	}
}

// @Summary Create an invoice
// @Description Issue a new invoice owned by the caller
// @Tags Invoices
// @Accept json
// @Produce json
// @Param X-Account-Address header string true "Caller address"
// @Param invoice body dto.CreateInvoiceRequest true "Invoice terms"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind create invoice request", "error", err)
		c.Error(bindError(err))
		return
	}

	resp, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get an invoice
// @Description Every view of an invoice evaluated at one point in time
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Param at query int false "Unix seconds, defaults to now"
// @Success 200 {object} dto.InvoiceSummaryResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		c.Error(err)
		return
	}
	at, err := parseAt(c, h.clock)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.invoiceService.GetInvoiceSummary(c.Request.Context(), id, at)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InvoiceHandler) GetOutstanding(c *gin.Context) {
	timedView(c, h.clock, h.invoiceService.InvoiceOutstanding)
}

func (h *InvoiceHandler) GetIsOverdue(c *gin.Context) {
	timedView(c, h.clock, h.invoiceService.IsOverdue)
}

func (h *InvoiceHandler) GetOverdueFee(c *gin.Context) {
	timedView(c, h.clock, h.invoiceService.OverdueFee)
}

func (h *InvoiceHandler) GetAmount(c *gin.Context) {
	view(c, h.invoiceService.InvoiceAmount)
}

func (h *InvoiceHandler) GetBalance(c *gin.Context) {
	view(c, h.invoiceService.InvoiceBalance)
}

func (h *InvoiceHandler) GetIsPaid(c *gin.Context) {
	view(c, h.invoiceService.IsPaid)
}

func (h *InvoiceHandler) GetDueAt(c *gin.Context) {
	view(c, h.invoiceService.DueAt)
}

func (h *InvoiceHandler) GetOverdueInterest(c *gin.Context) {
	view(c, h.invoiceService.OverdueInterest)
}

func (h *InvoiceHandler) GetLateFees(c *gin.Context) {
	view(c, h.invoiceService.LateFees)
}

func (h *InvoiceHandler) GetTokenURI(c *gin.Context) {
	view(c, h.invoiceService.TokenURI)
}

func (h *InvoiceHandler) GetOwner(c *gin.Context) {
	view(c, h.invoiceService.OwnerOf)
}

// @Summary List invoices of an owner
// @Tags Owners
// @Produce json
// @Param address path string true "Owner address"
// @Success 200 {object} dto.ListResponse[int64]
// @Router /owners/{address}/invoices [get]
func (h *InvoiceHandler) ListOwnerInvoices(c *gin.Context) {
	address, err := ownerAddress(c)
	if err != nil {
		c.Error(err)
		return
	}

	ids, err := h.invoiceService.InvoicesForOwner(c.Request.Context(), address)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(ids))
}

// @Summary Count invoices of an owner
// @Tags Owners
// @Produce json
// @Param address path string true "Owner address"
// @Success 200 {object} dto.ValueResponse[int64]
// @Router /owners/{address}/balance [get]
func (h *InvoiceHandler) GetOwnerBalance(c *gin.Context) {
	address, err := ownerAddress(c)
	if err != nil {
		c.Error(err)
		return
	}

	count, err := h.invoiceService.BalanceOf(c.Request.Context(), address)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ValueResponse[int64]{Value: count})
}

// @Summary Number of invoices issued
// @Tags Invoices
// @Produce json
// @Success 200 {object} dto.ValueResponse[int64]
// @Router /supply [get]
func (h *InvoiceHandler) GetTotalSupply(c *gin.Context) {
	supply, err := h.invoiceService.TotalSupply(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ValueResponse[int64]{Value: supply})
}

func view[T any](c *gin.Context, fn func(ctx context.Context, id int64) (T, error)) {
	id, err := parseInvoiceID(c)
	if err != nil {
		c.Error(err)
		return
	}

	value, err := fn(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ValueResponse[T]{ID: id, Value: value})
}

func timedView[T any](c *gin.Context, clock func() time.Time, fn func(ctx context.Context, id int64, at int64) (T, error)) {
	id, err := parseInvoiceID(c)
	if err != nil {
		c.Error(err)
		return
	}
	at, err := parseAt(c, clock)
	if err != nil {
		c.Error(err)
		return
	}

	value, err := fn(c.Request.Context(), id, at)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ValueResponse[T]{ID: id, At: at, Value: value})
}

func ownerAddress(c *gin.Context) (string, error) {
	address := c.Param("address")
	if err := validator.GetValidator().Var(address, "eth_addr"); err != nil {
		return "", ierr.WithError(err).
			WithHintf("%q is not a valid address", address).
			Mark(ierr.ErrValidation)
	}
	return types.NormalizeAddress(address), nil
}
