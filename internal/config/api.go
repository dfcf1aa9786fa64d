package config

import (
	"fmt"

	"github.com/JaimeStill/annex/pkg/formatting"
	"github.com/JaimeStill/annex/pkg/middleware"
	"github.com/JaimeStill/annex/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ANNEX_CORS_ENABLED",
	Origins:          "ANNEX_CORS_ORIGINS",
	AllowedMethods:   "ANNEX_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ANNEX_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "ANNEX_CORS_EXPOSED_HEADERS",
	AllowCredentials: "ANNEX_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ANNEX_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "ANNEX_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "ANNEX_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
}

// MaxRequestSizeBytes returns the request body limit in bytes.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return 1 << 20
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	envString("ANNEX_API_BASE_PATH", &c.BasePath)
	envString("ANNEX_API_MAX_REQUEST_SIZE", &c.MaxRequestSize)
}
