package pyroscope

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestDisabledServiceIsInert(t *testing.T) {
	svc := NewPyroscopeService(config.GetDefaultConfig(), logger.NewNopLogger())
	assert.False(t, svc.IsEnabled())

	lc := fxtest.NewLifecycle(t)
	RegisterHooks(lc, svc)
	lc.RequireStart()
	lc.RequireStop()
}

func TestProfileTypes(t *testing.T) {
	cfg := config.GetDefaultConfig()
	svc := NewPyroscopeService(cfg, logger.NewNopLogger())
	assert.Len(t, svc.profileTypes(), 6)

	cfg.Pyroscope.ProfileTypes = []string{"CPU", "mutex_count", "bogus"}
	types := svc.profileTypes()
	require.Len(t, types, 2)
	assert.Equal(t, pyroscope.ProfileCPU, types[0])
	assert.Equal(t, pyroscope.ProfileMutexCount, types[1])
}
