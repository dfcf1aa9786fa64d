package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment overrides ignore unset and unparseable values so the
// file or default value stays in effect.

func envString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(name string, dst *float64) {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(name string, dst *bool) {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// durations validates named duration strings in a stable order.
func durations(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if _, err := time.ParseDuration(pairs[i+1]); err != nil {
			return fmt.Errorf("invalid %s: %w", pairs[i], err)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
