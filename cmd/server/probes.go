package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/annex/internal/infrastructure"
	"github.com/JaimeStill/annex/pkg/handlers"
	"github.com/JaimeStill/annex/pkg/module"
)

type probe struct {
	Status string `json:"status"`
}

func registerProbes(router *module.Router, infra *infrastructure.Infrastructure) {
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, probe{Status: "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, probe{Status: "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, probe{Status: "ready"})
	})

	metrics := promhttp.HandlerFor(infra.Metrics, promhttp.HandlerOpts{Registry: infra.Metrics})
	router.HandleNative("GET /metrics", metrics.ServeHTTP)
}
