// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/annex/internal/config"
	"github.com/JaimeStill/annex/internal/infrastructure"
	"github.com/JaimeStill/annex/pkg/middleware"
	"github.com/JaimeStill/annex/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The job runner is started against the infrastructure lifecycle.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}

	if err := domain.Jobs.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("jobs start failed: %w", err)
	}

	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
