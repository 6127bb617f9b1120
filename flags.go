package main

import (
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/apps/go-server/internal/palette"
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

// gameFlags are the configuration flags shared by play, bench and check.
type gameFlags struct {
	pegs    int
	palette string
	colors  string
	policy  string
	maxDups int
	strict  bool
}

func (g *gameFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&g.pegs, "pegs", "n", 4, "number of pegs")
	cmd.Flags().StringVar(&g.palette, "palette", "", "named palette (see /palettes)")
	cmd.Flags().StringVarP(&g.colors, "colors", "c", "", `color labels, e.g. "Red, Green, Blue" (default: classic palette)`)
	cmd.Flags().StringVarP(&g.policy, "policy", "p", "unlimited", "duplicates: unlimited, limited or none")
	cmd.Flags().IntVar(&g.maxDups, "max-dups", 0, "for --policy limited: max repeats of one color")
	cmd.Flags().BoolVar(&g.strict, "strict", false, "evaluate every guess (slower, fewer rounds)")
}

func (g *gameFlags) config() (solver.Config, error) {
	name := g.palette
	if name == "" && g.colors == "" {
		name = palette.ClassicName
	}
	colors, err := palette.Resolve(name, g.colors, nil)
	if err != nil {
		return solver.Config{}, err
	}
	pol, err := solver.ParsePolicy(g.policy, g.maxDups)
	if err != nil {
		return solver.Config{}, err
	}
	return solver.NewConfig(g.pegs, colors, pol), nil
}

func (g *gameFlags) options(a *app) solver.Options {
	if g.strict {
		return solver.StrictOptions()
	}
	return a.cfg.SolverOptions()
}
