package v1

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
)

// parseInvoiceID reads the :id path parameter
func parseInvoiceID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ierr.NewError("invalid invoice id").
			WithHintf("Invoice ID must be a positive integer, got %q", raw).
			Mark(ierr.ErrValidation)
	}
	return id, nil
}

// parseAt reads the optional at query parameter, unix seconds. The clock
// supplies the default.
func parseAt(c *gin.Context, clock func() time.Time) (int64, error) {
	raw := c.Query("at")
	if raw == "" {
		return clock().Unix(), nil
	}

	at, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ierr.NewError("invalid timestamp").
			WithHintf("at must be unix seconds, got %q", raw).
			Mark(ierr.ErrValidation)
	}
	if at < 0 {
		return 0, ierr.NewError("value out-of-bounds").
			WithHint("at must not be negative").
			Mark(ierr.ErrValueOutOfRange)
	}
	return at, nil
}

func bindError(err error) error {
	return ierr.WithError(err).
		WithHint("Invalid request format").
		Mark(ierr.ErrValidation)
}
