package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/service"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

type AccountHandler struct {
	service service.AccountService
	log     *logger.Logger
}

func NewAccountHandler(service service.AccountService, log *logger.Logger) *AccountHandler {
	return &AccountHandler{service: service, log: log}
}

// @Summary Fund an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param address path string true "Account address"
// @Param Idempotency-Key header string false "Replay protection key"
// @Param deposit body dto.DepositRequest true "Amount in base units"
// @Success 200 {object} dto.AccountResponse
// @Router /accounts/{address}/deposit [post]
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind deposit request", "error", err)
		c.Error(bindError(err))
		return
	}
	req.IdempotencyKey = c.GetHeader(types.HeaderIdempotencyKey)

	resp, err := h.service.Deposit(c.Request.Context(), c.Param("address"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get an account balance
// @Tags Accounts
// @Produce json
// @Param address path string true "Account address"
// @Success 200 {object} dto.AccountResponse
// @Router /accounts/{address} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	resp, err := h.service.GetAccount(c.Request.Context(), c.Param("address"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Custody balance
// @Description Value held by the payment processor, zero between payments
// @Tags Accounts
// @Produce json
// @Success 200 {object} dto.ValueResponse[string]
// @Router /custody [get]
func (h *AccountHandler) GetCustodyBalance(c *gin.Context) {
	balance, err := h.service.CustodyBalance(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ValueResponse[any]{Value: balance})
}
