package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

func (a *app) checkCmd() *cobra.Command {
	var g gameFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Count the possible codes of a configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			size, err := solver.CheckSize(cfg, a.cfg.SpaceCeiling)
			if err != nil && !errors.Is(err, solver.ErrConfigurationTooLarge) {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d pegs, %d colors, duplicates %s: %s possible codes\n",
				cfg.NumPegs, cfg.NumColors(), cfg.Policy, size)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "ok (limit %d)\n", a.cfg.SpaceCeiling)
			return nil
		},
	}
	g.register(cmd)
	return cmd
}
