package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/annex/internal/perspectives"
	"github.com/JaimeStill/annex/internal/reports"
	"github.com/JaimeStill/annex/pkg/pagination"
)

func reportCommand(load loader) *cobra.Command {
	var (
		dataset   string
		status    string
		threshold float64
		filters   string
		page      int
		pageSize  int
	)

	names := slices.Sorted(maps.Keys(reports.Kinds))

	cmd := &cobra.Command{
		Use:       "report <" + strings.Join(names, "|") + "> <project-id>",
		Short:     "Write a history report as CSV",
		Args:      cobra.ExactArgs(2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := reports.Kinds[args[0]]
			if !ok {
				return fmt.Errorf("%w: %s", reports.ErrUnknownReport, args[0])
			}

			id, err := projectID(args[1])
			if err != nil {
				return err
			}

			req := reports.Request{
				ProjectID: id,
				Status:    reports.Status(status),
			}
			if cmd.Flags().Changed("dataset") {
				req.DatasetName = &dataset
			}
			if cmd.Flags().Changed("threshold") {
				req.Threshold = &threshold
			}
			if filters != "" {
				if req.PerspectiveFilters, err = perspectives.ParseFilters([]byte(filters)); err != nil {
					return err
				}
			}

			e, err := openEnv(load)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			if err := e.domain.Reports.Validate(ctx, req); err != nil {
				return failed(e.runtime.Logger, "report", err)
			}

			task, err := e.domain.Reports.Task(kind, req)
			if err != nil {
				return err
			}

			res, err := retrying(ctx, e, "report", task)
			if err != nil {
				return failed(e.runtime.Logger, "report", err)
			}

			if page < 1 {
				fmt.Fprintln(cmd.OutOrStdout(), res.Path)
				return nil
			}

			pr := pagination.PageRequest{Page: page, PageSize: pageSize}
			pr.Normalize(e.runtime.Pagination)

			rows, err := e.domain.Reports.Rows(res.Path, pr)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "Only include examples whose dataset name contains this value")
	cmd.Flags().StringVar(&status, "status", string(reports.StatusAll), "Annotation status: All, Finished, Not started, In progress")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Discrepancy threshold in percent (default from config)")
	cmd.Flags().StringVar(&filters, "perspective-filters", "", `Perspective filters as JSON, e.g. {"3":["Yes"]}`)
	cmd.Flags().IntVar(&page, "page", 0, "Print this page of rows instead of the report path")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page")

	return cmd
}
