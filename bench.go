package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/mastermind/apps/go-server/internal/game"
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

func (a *app) benchCmd() *cobra.Command {
	var (
		g       gameFlags
		workers int
		quiet   bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Solve every secret of a configuration and report round counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			size, err := solver.CheckSize(cfg, a.cfg.SpaceCeiling)
			if err != nil {
				return err
			}
			bar := progressbar.DefaultSilent(size.Int64())
			if !quiet {
				bar = progressbar.Default(size.Int64(), "solving")
			}
			opts := g.options(a)
			log.Info().Str("secrets", size.String()).Int("workers", workers).Interface("options", opts).Msg("bench started")

			res, err := runBench(cmd.Context(), cfg, opts, a.cfg.SpaceCeiling, workers, bar)
			if err != nil {
				return err
			}
			_ = bar.Finish()
			res.print(cmd.OutOrStdout())
			return nil
		},
	}
	g.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "concurrent games")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "no progress bar")
	return cmd
}

type benchResult struct {
	Secrets   int
	Max       int
	Mean      float64
	Histogram map[int]int // rounds → secrets
}

// runBench plays one game per secret, at most workers at a time. Each game
// owns its own session.
func runBench(ctx context.Context, cfg solver.Config, opts solver.Options, ceiling int64, workers int, bar *progressbar.ProgressBar) (benchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	secrets, err := solver.GenerateConfig(cfg)
	if err != nil {
		return benchResult{}, err
	}
	if workers < 1 {
		workers = 1
	}

	rounds := make([]int, len(secrets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, secret := range secrets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := game.Solve(cfg, secret, opts, ceiling, 0)
			if err != nil {
				return err
			}
			if t.State != game.StateSolved {
				return fmt.Errorf("secret %s ended %s", cfg.Format(secret), t.State)
			}
			rounds[i] = len(t.Rounds)
			_ = bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return benchResult{}, err
	}
	return summarize(rounds), nil
}

func summarize(rounds []int) benchResult {
	res := benchResult{Secrets: len(rounds), Histogram: make(map[int]int)}
	total := 0
	for _, r := range rounds {
		res.Histogram[r]++
		total += r
		if r > res.Max {
			res.Max = r
		}
	}
	if len(rounds) > 0 {
		res.Mean = float64(total) / float64(len(rounds))
	}
	return res
}

func (b benchResult) print(out io.Writer) {
	fmt.Fprintf(out, "secrets: %d\nmax rounds: %d\nmean rounds: %.3f\n", b.Secrets, b.Max, b.Mean)
	keys := make([]int, 0, len(b.Histogram))
	for k := range b.Histogram {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%3d rounds: %d\n", k, b.Histogram[k])
	}
}
