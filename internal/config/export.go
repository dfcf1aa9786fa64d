package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	EnvExportOutputDir            = "ANNEX_EXPORT_OUTPUT_DIR"
	EnvExportDiscrepancyThreshold = "ANNEX_EXPORT_DISCREPANCY_THRESHOLD"
	EnvExportUpload               = "ANNEX_EXPORT_UPLOAD"
)

// ExportConfig holds dataset export and report settings.
// OutputDir holds job directories and finished archives. Upload copies each
// finished artifact to the configured storage provider.
type ExportConfig struct {
	OutputDir            string  `toml:"output_dir"`
	DiscrepancyThreshold float64 `toml:"discrepancy_threshold"`
	Upload               bool    `toml:"upload"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ExportConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ExportConfig) Merge(overlay *ExportConfig) {
	if overlay.OutputDir != "" {
		c.OutputDir = overlay.OutputDir
	}
	if overlay.DiscrepancyThreshold != 0 {
		c.DiscrepancyThreshold = overlay.DiscrepancyThreshold
	}
	if overlay.Upload {
		c.Upload = true
	}
}

func (c *ExportConfig) loadDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(os.TempDir(), "annex")
	}
	if c.DiscrepancyThreshold == 0 {
		c.DiscrepancyThreshold = 70
	}
}

func (c *ExportConfig) loadEnv() {
	envString(EnvExportOutputDir, &c.OutputDir)
	envFloat(EnvExportDiscrepancyThreshold, &c.DiscrepancyThreshold)
	envBool(EnvExportUpload, &c.Upload)
}

func (c *ExportConfig) validate() error {
	if c.DiscrepancyThreshold <= 0 || c.DiscrepancyThreshold > 100 {
		return fmt.Errorf("discrepancy_threshold must be in (0, 100], got %v", c.DiscrepancyThreshold)
	}
	return nil
}
