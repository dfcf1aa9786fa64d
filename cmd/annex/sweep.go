package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/annex/internal/jobs"
)

func sweepCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove job directories and archives older than the result TTL",
		Long: `Remove entries under the export output directory that are older than the
configured result TTL. Run it only while no server shares the directory, since
the offline sweep cannot see which jobs are still referenced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			removed, err := jobs.Sweep(cfg.Export.OutputDir, cfg.Jobs.ResultTTLDuration(), nil)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries from %s\n", removed, cfg.Export.OutputDir)
			return nil
		},
	}
}
