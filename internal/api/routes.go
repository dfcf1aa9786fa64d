package api

import (
	"net/http"

	"github.com/JaimeStill/annex/internal/config"
	"github.com/JaimeStill/annex/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	maxRequestSize := cfg.API.MaxRequestSizeBytes()

	registered := routes.Register(
		mux,
		domain.Exports.Handler(domain.Jobs, maxRequestSize).Routes(),
		domain.Reports.Handler(domain.Jobs, runtime.Pagination, maxRequestSize).Routes(),
		domain.Jobs.Handler(runtime.Storage).Routes(),
	)

	for _, pattern := range registered {
		runtime.Logger.Debug("route registered", "pattern", pattern)
	}
}
