// Package infrastructure assembles the shared systems every annex entry point
// needs: the lifecycle coordinator, the logger, the metrics registry, the
// read-only annotation database, and the optional blob store.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/annex/internal/config"
	"github.com/JaimeStill/annex/pkg/database"
	"github.com/JaimeStill/annex/pkg/lifecycle"
	"github.com/JaimeStill/annex/pkg/storage"
)

// Infrastructure is shared by the HTTP server and the CLI.
// Storage is nil when no provider is configured.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Metrics   *prometheus.Registry
	Database  database.System
	Storage   storage.System
}

type starter interface {
	Start(lc *lifecycle.Coordinator) error
}

type component struct {
	name string
	starter
}

// New builds the systems without contacting Postgres or the blob store.
// Call Start to register their lifecycle hooks.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	})).With("version", cfg.Version)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Metrics:   newRegistry(),
		Database:  db,
	}

	if !cfg.Storage.Enabled() {
		logger.Debug("blob storage disabled")
		return infra, nil
	}

	infra.Storage, err = storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return infra, nil
}

// Start registers startup and shutdown hooks for each configured system.
func (i *Infrastructure) Start() error {
	components := []component{{"database", i.Database}}
	if i.Storage != nil {
		components = append(components, component{"storage", i.Storage})
	}

	for _, c := range components {
		if err := c.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("%s start failed: %w", c.name, err)
		}
	}
	return nil
}

// Ready reports whether startup finished and the database answered its ping.
func (i *Infrastructure) Ready() bool {
	return i.Lifecycle.Ready() && i.Database.Ready()
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
