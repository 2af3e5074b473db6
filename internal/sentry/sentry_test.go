package sentry

import (
	"context"
	"errors"
	"testing"

	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestDisabledServiceIsInert(t *testing.T) {
	svc := NewSentryService(config.GetDefaultConfig(), logger.NewNopLogger())
	assert.False(t, svc.Enabled())

	ctx := context.Background()
	span, spanCtx := svc.StartTransaction(ctx, "invoice.payment")
	assert.Nil(t, span)
	assert.Equal(t, ctx, spanCtx)

	span, spanCtx = svc.StartDBSpan(ctx, "invoice.get", nil)
	assert.Nil(t, span)
	assert.Equal(t, ctx, spanCtx)

	svc.CaptureException(errors.New("ignored"))
	svc.AddBreadcrumb("payment", "ignored", nil)
	assert.True(t, svc.Flush(1))
	FinishSpan(nil)

	var nilSvc *Service
	assert.False(t, nilSvc.Enabled())
}
