package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"posbound/internal/batch"
	"posbound/internal/format"
)

func newBatchCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compute bounds for every query in a YAML file",
		Long: `Batch reads a file of the form

  queries:
    - agent: Regular
      triggers: [100, 300]
      ticks: 949

and evaluates the queries in parallel. Failed queries are reported and make
the command exit non-zero once all queries have finished.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			queries, err := batch.LoadQueries(file)
			if err != nil {
				return err
			}
			outcomes, err := a.runQueries(cmd.Context(), queries)
			if err != nil {
				return err
			}
			if err := a.render(cmd.OutOrStdout(), toJSON(outcomes), func(m format.Mode) string {
				return format.Outcomes(m, outcomes)
			}); err != nil {
				return err
			}
			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d queries failed", failed, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Queries YAML file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
