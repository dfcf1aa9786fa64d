package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/annex/internal/exports"
	"github.com/JaimeStill/annex/internal/formatters"
)

func exportCommand(load loader) *cobra.Command {
	var (
		format        string
		confirmedOnly bool
		version       int
	)

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a project's dataset as a zip archive",
		Long: `Export the labeled dataset of a project into a zip archive under the
configured output directory. Collaborative projects produce all.<ext>;
other projects produce one <username>.<ext> per member.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := projectID(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(load)
			if err != nil {
				return err
			}
			defer e.Close()

			req := exports.Request{
				ProjectID:     id,
				Format:        formatters.Format(format),
				ConfirmedOnly: confirmedOnly,
			}
			if cmd.Flags().Changed("version") {
				req.Version = &version
			}

			ctx := cmd.Context()
			if err := e.domain.Exports.Validate(ctx, req); err != nil {
				return failed(e.runtime.Logger, "export", err)
			}

			res, err := retrying(ctx, e, "export", func(ctx context.Context) (*exports.Result, error) {
				return e.domain.Exports.Export(ctx, req)
			})
			if err != nil {
				return failed(e.runtime.Logger, "export", err)
			}

			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(formatters.JSONL), "Export format")
	cmd.Flags().BoolVar(&confirmedOnly, "confirmed-only", false, "Only export confirmed examples")
	cmd.Flags().IntVar(&version, "version", 0, "Export a historical project version instead of the current one")

	return cmd
}

func formatsCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "formats <project-id>",
		Short: "List the formats a project can be exported in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := projectID(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(load)
			if err != nil {
				return err
			}
			defer e.Close()

			formats, err := e.domain.Exports.Formats(cmd.Context(), id)
			if err != nil {
				return failed(e.runtime.Logger, "formats", err)
			}

			return printJSON(cmd.OutOrStdout(), formats)
		},
	}
}
