package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/annex/pkg/retry"
)

const (
	EnvJobsWorkers       = "ANNEX_JOBS_WORKERS"
	EnvJobsQueueSize     = "ANNEX_JOBS_QUEUE_SIZE"
	EnvJobsTimeout       = "ANNEX_JOBS_TIMEOUT"
	EnvJobsResultTTL     = "ANNEX_JOBS_RESULT_TTL"
	EnvJobsSweepInterval = "ANNEX_JOBS_SWEEP_INTERVAL"
	EnvJobsMaxRetries    = "ANNEX_JOBS_MAX_RETRIES"
)

// JobsConfig holds the background job runner settings.
type JobsConfig struct {
	Workers       int         `toml:"workers"`
	QueueSize     int         `toml:"queue_size"`
	Timeout       string      `toml:"timeout"`
	ResultTTL     string      `toml:"result_ttl"`
	SweepInterval string      `toml:"sweep_interval"`
	Retry         RetryConfig `toml:"retry"`
}

// RetryConfig is the backoff policy for transient job failures.
type RetryConfig struct {
	MaxRetries   int     `toml:"max_retries"`
	InitialDelay string  `toml:"initial_delay"`
	MaxDelay     string  `toml:"max_delay"`
	Multiplier   float64 `toml:"multiplier"`
	Jitter       float64 `toml:"jitter"`
}

// TimeoutDuration returns Timeout as a time.Duration. Zero disables the limit.
func (c *JobsConfig) TimeoutDuration() time.Duration {
	return duration(c.Timeout)
}

// ResultTTLDuration returns ResultTTL as a time.Duration.
func (c *JobsConfig) ResultTTLDuration() time.Duration {
	return duration(c.ResultTTL)
}

// SweepIntervalDuration returns SweepInterval as a time.Duration.
func (c *JobsConfig) SweepIntervalDuration() time.Duration {
	return duration(c.SweepInterval)
}

// Policy converts the retry settings to a retry.Policy.
func (c *RetryConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxRetries:   c.MaxRetries,
		InitialDelay: duration(c.InitialDelay),
		MaxDelay:     duration(c.MaxDelay),
		Multiplier:   c.Multiplier,
		Jitter:       c.Jitter,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *JobsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *JobsConfig) Merge(overlay *JobsConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.QueueSize != 0 {
		c.QueueSize = overlay.QueueSize
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.ResultTTL != "" {
		c.ResultTTL = overlay.ResultTTL
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
	if overlay.Retry.MaxRetries != 0 {
		c.Retry.MaxRetries = overlay.Retry.MaxRetries
	}
	if overlay.Retry.InitialDelay != "" {
		c.Retry.InitialDelay = overlay.Retry.InitialDelay
	}
	if overlay.Retry.MaxDelay != "" {
		c.Retry.MaxDelay = overlay.Retry.MaxDelay
	}
	if overlay.Retry.Multiplier != 0 {
		c.Retry.Multiplier = overlay.Retry.Multiplier
	}
	if overlay.Retry.Jitter != 0 {
		c.Retry.Jitter = overlay.Retry.Jitter
	}
}

func (c *JobsConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.QueueSize == 0 {
		c.QueueSize = 64
	}
	if c.Timeout == "" {
		c.Timeout = "30m"
	}
	if c.ResultTTL == "" {
		c.ResultTTL = "1h"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "15m"
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = 3
	}
	if c.Retry.InitialDelay == "" {
		c.Retry.InitialDelay = "2s"
	}
	if c.Retry.MaxDelay == "" {
		c.Retry.MaxDelay = "1m"
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = 2
	}
	if c.Retry.Jitter == 0 {
		c.Retry.Jitter = 0.2
	}
}

func (c *JobsConfig) loadEnv() {
	envInt(EnvJobsWorkers, &c.Workers)
	envInt(EnvJobsQueueSize, &c.QueueSize)
	envString(EnvJobsTimeout, &c.Timeout)
	envString(EnvJobsResultTTL, &c.ResultTTL)
	envString(EnvJobsSweepInterval, &c.SweepInterval)
	envInt(EnvJobsMaxRetries, &c.Retry.MaxRetries)
}

func (c *JobsConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be positive")
	}
	if err := durations(
		"timeout", c.Timeout,
		"result_ttl", c.ResultTTL,
		"sweep_interval", c.SweepInterval,
		"retry.initial_delay", c.Retry.InitialDelay,
		"retry.max_delay", c.Retry.MaxDelay,
	); err != nil {
		return err
	}
	if c.ResultTTLDuration() <= 0 {
		return fmt.Errorf("result_ttl must be positive")
	}
	if d := c.TimeoutDuration(); d > 0 && d >= c.ResultTTLDuration() {
		return fmt.Errorf("timeout must be shorter than result_ttl")
	}
	if c.SweepIntervalDuration() <= 0 {
		return fmt.Errorf("sweep_interval must be positive")
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries cannot be negative")
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry.multiplier must be at least 1")
	}
	if c.Retry.Jitter < 0 || c.Retry.Jitter >= 1 {
		return fmt.Errorf("retry.jitter must be in [0, 1)")
	}
	return nil
}
