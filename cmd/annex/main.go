// Command annex runs dataset exports, history reports and maintenance tasks
// against the annotation store without the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/annex/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "annex",
		Short:        "Export annotated datasets and history reports",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", config.BaseConfigFile, "Path to the base config file")

	load := func() (*config.Config, error) {
		cfg, err := config.LoadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("config load failed: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(
		exportCommand(load),
		reportCommand(load),
		formatsCommand(load),
		sweepCommand(load),
		migrateCommand(load),
	)

	return root
}
