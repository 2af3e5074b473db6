package middleware

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/invoicebuild/invoicebuild/internal/validator"
)

// AccountMiddleware identifies the caller from the account header. A missing
// header is allowed here, operations that need a caller reject it themselves.
// A malformed address aborts the request.
func AccountMiddleware(c *gin.Context) {
	address := c.GetHeader(types.HeaderAccount)
	if address == "" {
		c.Next()
		return
	}

	if err := validator.GetValidator().Var(address, "eth_addr"); err != nil {
		c.Error(ierr.WithError(err).
			WithHintf("%s must be a 0x prefixed 20 byte hex address", types.HeaderAccount).
			WithReportableDetails(map[string]any{"address": address}).
			Mark(ierr.ErrValidation))
		c.Abort()
		return
	}

	c.Request = c.Request.WithContext(types.SetAccount(c.Request.Context(), address))
	c.Next()
}
