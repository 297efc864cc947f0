package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"posbound/internal/format"
)

type resultJSON struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Agent     string    `json:"agent"`
	Triggers  []int64   `json:"triggers"`
	Ticks     int64     `json:"ticks"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	CreatedAt time.Time `json:"created_at"`
}

func newCacheCmd(a *app) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the result cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached results, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			if st == nil {
				return errors.New("no cache configured (use --cache or POSBOUND_CACHE)")
			}
			defer st.Close()

			results, err := st.List()
			if err != nil {
				return err
			}
			rows := make([]resultJSON, len(results))
			for i, r := range results {
				rows[i] = resultJSON{
					ID:        r.ID.String(),
					Key:       r.Key,
					Agent:     string(r.Agent),
					Triggers:  r.Triggers,
					Ticks:     r.Ticks,
					Min:       r.Min,
					Max:       r.Max,
					CreatedAt: r.CreatedAt,
				}
				if rows[i].Triggers == nil {
					rows[i].Triggers = []int64{}
				}
			}
			return a.render(cmd.OutOrStdout(), rows, func(m format.Mode) string {
				return format.Results(m, results)
			})
		},
	})
	return cacheCmd
}
