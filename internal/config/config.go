package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/annex/pkg/database"
	"github.com/JaimeStill/annex/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAnnexEnv             = "ANNEX_ENV"
	EnvAnnexShutdownTimeout = "ANNEX_SHUTDOWN_TIMEOUT"
	EnvAnnexVersion         = "ANNEX_VERSION"
	EnvAnnexLogLevel        = "ANNEX_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Host:             "ANNEX_DB_HOST",
	Port:             "ANNEX_DB_PORT",
	Name:             "ANNEX_DB_NAME",
	User:             "ANNEX_DB_USER",
	Password:         "ANNEX_DB_PASSWORD",
	SSLMode:          "ANNEX_DB_SSL_MODE",
	ApplicationName:  "ANNEX_DB_APPLICATION_NAME",
	StatementTimeout: "ANNEX_DB_STATEMENT_TIMEOUT",
	MaxOpenConns:     "ANNEX_DB_MAX_OPEN_CONNS",
	MaxIdleConns:     "ANNEX_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime:  "ANNEX_DB_CONN_MAX_LIFETIME",
	ConnTimeout:      "ANNEX_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "ANNEX_STORAGE_PROVIDER",
	Container:        "ANNEX_STORAGE_CONTAINER",
	Prefix:           "ANNEX_STORAGE_PREFIX",
	ConnectionString: "ANNEX_STORAGE_CONNECTION_STRING",
	ServiceURL:       "ANNEX_STORAGE_SERVICE_URL",
	Region:           "ANNEX_STORAGE_REGION",
	Endpoint:         "ANNEX_STORAGE_ENDPOINT",
}

// Config is the root configuration for the annex service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Export          ExportConfig    `toml:"export"`
	Jobs            JobsConfig      `toml:"jobs"`
	LogLevel        string          `toml:"log_level"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the ANNEX_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAnnexEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads config.toml from the working directory. See LoadFile.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile reads the base config at path when it exists, merges the
// config.<ANNEX_ENV>.toml overlay found beside it, then finalizes every
// section. Without any file, defaults and ANNEX_* variables supply the values.
// Unknown keys are rejected so a misspelled setting fails loudly.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if exists(path) {
		base, err := decode(path)
		if err != nil {
			return nil, err
		}
		cfg = base
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := decode(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	for _, f := range []struct{ dst, src *string }{
		{&c.LogLevel, &overlay.LogLevel},
		{&c.ShutdownTimeout, &overlay.ShutdownTimeout},
		{&c.Version, &overlay.Version},
	} {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}

	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Export.Merge(&overlay.Export)
	c.Jobs.Merge(&overlay.Jobs)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"export", c.Export.Finalize},
		{"jobs", c.Jobs.Finalize},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	if c.Export.Upload && !c.Storage.Enabled() {
		return fmt.Errorf("export: upload requires a storage provider")
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	envString(EnvAnnexLogLevel, &c.LogLevel)
	envString(EnvAnnexShutdownTimeout, &c.ShutdownTimeout)
	envString(EnvAnnexVersion, &c.Version)
}

func (c *Config) validate() error {
	if err := durations("shutdown_timeout", c.ShutdownTimeout); err != nil {
		return err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

func decode(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}

	return &cfg, nil
}

// overlayPath returns the environment overlay beside base, or "" when
// ANNEX_ENV is unset or the file does not exist.
func overlayPath(base string) string {
	env := os.Getenv(EnvAnnexEnv)
	if env == "" {
		return ""
	}

	path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if !exists(path) {
		return ""
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
