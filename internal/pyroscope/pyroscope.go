// Package pyroscope runs continuous profiling of the server when enabled.
package pyroscope

import (
	"context"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"go.uber.org/fx"
)

type Service struct {
	cfg      *config.PyroscopeConfig
	logger   *logger.Logger
	profiler *pyroscope.Profiler
}

// Module provides fx options for Pyroscope
func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewPyroscopeService),
		fx.Invoke(RegisterHooks),
	)
}

func NewPyroscopeService(cfg *config.Configuration, logger *logger.Logger) *Service {
	return &Service{
		cfg:    &cfg.Pyroscope,
		logger: logger,
	}
}

// RegisterHooks starts the profiler with the app and stops it on shutdown
func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.Start()
		},
		OnStop: func(ctx context.Context) error {
			return svc.Stop()
		},
	})
}

func (s *Service) IsEnabled() bool {
	return s.cfg.Enabled
}

// Start is a no-op when profiling is disabled
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("Pyroscope profiling is disabled")
		return nil
	}

	profileTypes := s.profileTypes()
	pyroscopeConfig := pyroscope.Config{
		ApplicationName:   s.cfg.ApplicationName,
		ServerAddress:     s.cfg.ServerAddress,
		BasicAuthUser:     s.cfg.BasicAuthUser,
		BasicAuthPassword: s.cfg.BasicAuthPass,
		ProfileTypes:      profileTypes,
		SampleRate:        s.cfg.SampleRate,
		DisableGCRuns:     s.cfg.DisableGCRuns,
		Logger:            s,
	}

	profiler, err := pyroscope.Start(pyroscopeConfig)
	if err != nil {
		s.logger.Errorw("Failed to initialize Pyroscope", "error", err)
		return err
	}
	s.profiler = profiler

	s.logger.Infow("Pyroscope profiling started",
		"application_name", s.cfg.ApplicationName,
		"server_address", s.cfg.ServerAddress,
		"profile_types", profileTypes,
	)
	return nil
}

func (s *Service) Stop() error {
	if s.profiler == nil {
		return nil
	}
	s.logger.Info("Stopping Pyroscope profiling")
	err := s.profiler.Stop()
	s.profiler = nil
	return err
}

// Debugf is silenced, the profiler logs every upload at debug level
func (s *Service) Debugf(format string, args ...interface{}) {}

func (s *Service) Infof(format string, args ...interface{}) {
	s.logger.Infof("[Pyroscope] "+format, args...)
}

func (s *Service) Errorf(format string, args ...interface{}) {
	s.logger.Errorf("[Pyroscope] "+format, args...)
}

var profileTypesByName = map[string]pyroscope.ProfileType{
	"cpu":            pyroscope.ProfileCPU,
	"inuse_objects":  pyroscope.ProfileInuseObjects,
	"alloc_objects":  pyroscope.ProfileAllocObjects,
	"inuse_space":    pyroscope.ProfileInuseSpace,
	"alloc_space":    pyroscope.ProfileAllocSpace,
	"goroutines":     pyroscope.ProfileGoroutines,
	"mutex_count":    pyroscope.ProfileMutexCount,
	"mutex_duration": pyroscope.ProfileMutexDuration,
	"block_count":    pyroscope.ProfileBlockCount,
	"block_duration": pyroscope.ProfileBlockDuration,
}

func (s *Service) profileTypes() []pyroscope.ProfileType {
	if len(s.cfg.ProfileTypes) == 0 {
		return []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileGoroutines,
		}
	}

	var types []pyroscope.ProfileType
	for _, name := range s.cfg.ProfileTypes {
		pt, ok := profileTypesByName[strings.ToLower(name)]
		if !ok {
			s.logger.Warnw("Unknown profile type", "type", name)
			continue
		}
		types = append(types, pt)
	}
	return types
}
