package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/JaimeStill/annex/internal/api"
	"github.com/JaimeStill/annex/internal/config"
	"github.com/JaimeStill/annex/internal/infrastructure"
	"github.com/JaimeStill/annex/pkg/module"
)

// Server binds the API module and the operational probes to one listener.
type Server struct {
	infra  *infrastructure.Infrastructure
	http   *http.Server
	logger *slog.Logger

	drainTimeout time.Duration
}

// NewServer builds the infrastructure and mounts the API module. Nothing
// listens or connects until Start.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	router := module.NewRouter()
	registerProbes(router, infra)
	if err := router.Mount(apiModule); err != nil {
		return nil, err
	}

	return &Server{
		infra: infra,
		http: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeoutDuration(),
			ReadTimeout:       cfg.Server.ReadTimeoutDuration(),
			WriteTimeout:      cfg.Server.WriteTimeoutDuration(),
			IdleTimeout:       cfg.Server.IdleTimeoutDuration(),
			ErrorLog:          slog.NewLogLogger(infra.Logger.Handler(), slog.LevelWarn),
		},
		logger:       infra.Logger.With("system", "http"),
		drainTimeout: cfg.Server.ShutdownTimeoutDuration(),
	}, nil
}

// Start binds the listener, serves in the background, and registers the
// drain hook. Binding errors are returned immediately.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}

	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	lc := s.infra.Lifecycle
	lc.OnShutdown("http", func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
		defer cancel()

		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error("server drain failed", "error", err)
			return
		}
		s.logger.Info("server drained")
	})

	go func() {
		lc.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown stops accepting requests and waits for every shutdown hook.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
