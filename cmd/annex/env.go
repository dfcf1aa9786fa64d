package main

import (
	"github.com/JaimeStill/annex/internal/api"
	"github.com/JaimeStill/annex/internal/config"
	"github.com/JaimeStill/annex/internal/infrastructure"
)

type loader func() (*config.Config, error)

// env is the offline counterpart of the server: the same infrastructure and
// domain systems, started for the span of one command.
type env struct {
	cfg     *config.Config
	infra   *infrastructure.Infrastructure
	runtime *api.Runtime
	domain  *api.Domain
}

func openEnv(load loader) (*env, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	runtime := api.NewRuntime(cfg, infra)

	return &env{
		cfg:     cfg,
		infra:   infra,
		runtime: runtime,
		domain:  api.NewDomain(runtime),
	}, nil
}

func (e *env) Close() error {
	return e.infra.Lifecycle.Shutdown(e.cfg.ShutdownTimeoutDuration())
}
