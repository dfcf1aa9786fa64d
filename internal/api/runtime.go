package api

import (
	"github.com/JaimeStill/annex/internal/config"
	"github.com/JaimeStill/annex/internal/infrastructure"
	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Jobs       jobs.Config
	Export     config.ExportConfig
	StorageKey func(name string) string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Metrics:   infra.Metrics,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Jobs: jobs.Config{
			Workers:       cfg.Jobs.Workers,
			QueueSize:     cfg.Jobs.QueueSize,
			Timeout:       cfg.Jobs.TimeoutDuration(),
			ResultTTL:     cfg.Jobs.ResultTTLDuration(),
			SweepInterval: cfg.Jobs.SweepIntervalDuration(),
			Retry:         cfg.Jobs.Retry.Policy(),
			OutputDir:     cfg.Export.OutputDir,
		},
		Export:     cfg.Export,
		StorageKey: cfg.Storage.Key,
	}
}
