package main

import (
	"github.com/spf13/cobra"

	"posbound/internal/agentdb"
	"posbound/internal/format"
)

type agentJSON struct {
	Type         agentdb.AgentType `json:"type"`
	Model        string            `json:"model"`
	SpeedMin     string            `json:"speed_min"`
	SpeedMax     string            `json:"speed_max"`
	SpawnMin     int64             `json:"spawn_min"`
	SpawnMax     int64             `json:"spawn_max"`
	ChillImmune  bool              `json:"chill_immune"`
	FreezeImmune bool              `json:"freeze_immune"`
	Approximate  bool              `json:"approximate"`
}

func newAgentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the agent types of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.database()
			if err != nil {
				return err
			}
			var params []*agentdb.AgentParameters
			var rows []agentJSON
			for _, t := range reg.Types() {
				p, err := reg.Lookup(t)
				if err != nil {
					return err
				}
				params = append(params, p)
				rows = append(rows, agentJSON{
					Type:         p.Type,
					Model:        p.Movement.Name(),
					SpeedMin:     p.SpeedMin.String(),
					SpeedMax:     p.SpeedMax.String(),
					SpawnMin:     p.SpawnMin,
					SpawnMax:     p.SpawnMax,
					ChillImmune:  p.ChillImmune,
					FreezeImmune: p.FreezeImmune,
					Approximate:  p.Approximate,
				})
			}
			return a.render(cmd.OutOrStdout(), rows, func(m format.Mode) string {
				return format.Agents(m, params)
			})
		},
	}
}
