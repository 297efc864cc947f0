package main

import (
	"context"

	"github.com/spf13/cobra"

	"posbound/internal/agentdb"
	"posbound/internal/batch"
	"posbound/internal/format"
	"posbound/internal/logging"
	"posbound/internal/store"
)

// outcomeJSON is the JSON shape of one evaluated query.
type outcomeJSON struct {
	Agent       agentdb.AgentType `json:"agent"`
	Triggers    []int64           `json:"triggers"`
	Ticks       int64             `json:"ticks"`
	Min         *float64          `json:"min,omitempty"`
	Max         *float64          `json:"max,omitempty"`
	Cached      bool              `json:"cached"`
	Approximate bool              `json:"approximate"`
	Error       string            `json:"error,omitempty"`
}

func toJSON(outcomes []batch.Outcome) []outcomeJSON {
	out := make([]outcomeJSON, len(outcomes))
	for i, o := range outcomes {
		j := outcomeJSON{
			Agent:       o.Query.Agent,
			Triggers:    o.Query.Canonical(),
			Ticks:       o.Query.Ticks,
			Cached:      o.Cached,
			Approximate: o.Approximate,
		}
		if j.Triggers == nil {
			j.Triggers = []int64{}
		}
		if o.Err != nil {
			j.Error = o.Err.Error()
		} else {
			j.Min, j.Max = &o.Bounds.Min, &o.Bounds.Max
		}
		out[i] = j
	}
	return out
}

// runQueries evaluates queries against the configured database and cache.
func (a *app) runQueries(ctx context.Context, queries []store.Query) ([]batch.Outcome, error) {
	reg, err := a.database()
	if err != nil {
		return nil, err
	}
	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if st != nil {
		defer st.Close()
	}
	r := &batch.Runner{
		Engine:      a.engine(reg),
		Store:       st,
		Agents:      reg,
		Fingerprint: reg.Fingerprint(),
		Parallel:    a.cfg.Workers,
	}
	outcomes := r.Run(ctx, queries)
	warnApproximate(outcomes)
	return outcomes, nil
}

// warnApproximate logs once per agent type whose bounds rest on estimated
// parameters.
func warnApproximate(outcomes []batch.Outcome) {
	seen := map[agentdb.AgentType]bool{}
	for _, o := range outcomes {
		if !o.Approximate || seen[o.Query.Agent] {
			continue
		}
		seen[o.Query.Agent] = true
		logging.New("cli").Warn("bounds use estimated frame tables and are not exact",
			"agent", o.Query.Agent, "hint", "pass --db with measured tables")
	}
}

func newBoundsCmd(a *app) *cobra.Command {
	var q struct {
		agent    string
		triggers []int64
		ticks    int64
	}
	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Compute the position bounds of one agent",
		Example: "  posbound bounds --agent Regular --ticks 949 --trigger 100\n" +
			"  posbound bounds --agent Gargantuar --ticks 2000 --trigger 100,1200 -o json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outcomes, err := a.runQueries(cmd.Context(), []store.Query{{
				Agent:    agentdb.AgentType(q.agent),
				Triggers: q.triggers,
				Ticks:    q.ticks,
			}})
			if err != nil {
				return err
			}
			if err := outcomes[0].Err; err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), toJSON(outcomes)[0], func(m format.Mode) string {
				return format.Outcomes(m, outcomes)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&q.agent, "agent", "", "Agent type (required)")
	f.Int64SliceVar(&q.triggers, "trigger", nil, "Freeze trigger tick, 1-indexed (repeatable)")
	f.Int64Var(&q.ticks, "ticks", 0, "Number of ticks to simulate (required)")
	_ = cmd.MarkFlagRequired("agent")
	_ = cmd.MarkFlagRequired("ticks")
	return cmd
}
