package repository

import (
	"path/filepath"
	"testing"

	"github.com/invoicebuild/invoicebuild/internal/config"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/invoicebuild/invoicebuild/internal/sentry"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newSentry(t *testing.T, cfg *config.Configuration) *sentry.Service {
	t.Helper()
	return sentry.NewSentryService(cfg, logger.NewNopLogger())
}

func TestNewStoresMemory(t *testing.T) {
	cfg := config.GetDefaultConfig()
	lc := fxtest.NewLifecycle(t)

	stores, err := NewStores(lc, cfg, logger.NewNopLogger(), newSentry(t, cfg))
	require.NoError(t, err)
	assert.NotNil(t, stores.DB)
	assert.NotNil(t, stores.InvoiceRepo)
	assert.NotNil(t, stores.OwnershipRepo)
	assert.NotNil(t, stores.AccountRepo)
	assert.NotNil(t, stores.PaymentRepo)
}

func TestNewStoresBolt(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Store.Type = types.StoreTypeBolt
	cfg.Bolt.Path = filepath.Join(t.TempDir(), "factory.db")
	lc := fxtest.NewLifecycle(t)

	stores, err := NewStores(lc, cfg, logger.NewNopLogger(), newSentry(t, cfg))
	require.NoError(t, err)
	assert.NotNil(t, stores.PaymentRepo)

	lc.RequireStart()
	lc.RequireStop()
}

func TestNewStoresUnknownType(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Store.Type = "cassandra"

	_, err := NewStores(nil, cfg, logger.NewNopLogger(), newSentry(t, cfg))
	assert.True(t, ierr.IsValidation(err))
}
