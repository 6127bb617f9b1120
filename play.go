package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/apps/go-server/internal/game"
	"github.com/robalobadob/mastermind/apps/go-server/internal/palette"
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

func (a *app) playCmd() *cobra.Command {
	var (
		g      gameFlags
		secret string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Break your secret code in the terminal",
		Long: `Think of a secret code; the assistant proposes guesses and you answer each one
with two numbers: pegs of the right color in the right place, then pegs of the
right color in the wrong place. With --secret the assistant plays by itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			if secret != "" {
				return autoPlay(cmd.OutOrStdout(), cfg, secret, g.options(a), a.cfg.SpaceCeiling)
			}
			return interactive(cmd.InOrStdin(), cmd.OutOrStdout(), cfg, g.options(a), a.cfg.SpaceCeiling)
		},
	}
	g.register(cmd)
	cmd.Flags().StringVar(&secret, "secret", "", `auto-play against this code, e.g. "Red Red Green Blue"`)
	return cmd
}

// interactive runs one game, reading "exact colorOnly" lines from in.
// Bad lines are reported and the same guess is asked again.
func interactive(in io.Reader, out io.Writer, cfg solver.Config, opts solver.Options, ceiling int64) error {
	s := game.New(opts, ceiling)
	if err := s.Start(cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d possible codes. Answer each guess with \"exact colorOnly\" (e.g. \"1 2\"), q to quit.\n", s.Remaining())

	sc := bufio.NewScanner(in)
	for {
		guess, err := s.NextGuess()
		if errors.Is(err, game.ErrContradiction) {
			fmt.Fprintln(out, game.ContradictionMessage)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Guess %d: %s\n> ", s.Rounds()+1, cfg.Format(guess))
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "q" || line == "quit" {
			return nil
		}
		exact, colorOnly, err := parseFeedback(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		state, err := s.RecordFeedback(guess, exact, colorOnly)
		if errors.Is(err, game.ErrInvalidFeedback) {
			fmt.Fprintln(out, err)
			continue
		}
		if err != nil {
			return err
		}
		switch state {
		case game.StateSolved:
			fmt.Fprintf(out, "Solved in %d rounds: %s\n", s.Rounds(), cfg.Format(guess))
			return nil
		case game.StateContradiction:
			fmt.Fprintln(out, game.ContradictionMessage)
			return nil
		}
		fmt.Fprintf(out, "%d possible codes left\n", s.Remaining())
	}
}

// parseFeedback reads two whole numbers separated by spaces or a comma.
func parseFeedback(line string) (exact, colorOnly int, err error) {
	f := palette.Split(line)
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("enter two numbers: exact and color-only")
	}
	if exact, err = strconv.Atoi(f[0]); err != nil {
		return 0, 0, fmt.Errorf("exact: %q is not a number", f[0])
	}
	if colorOnly, err = strconv.Atoi(f[1]); err != nil {
		return 0, 0, fmt.Errorf("color-only: %q is not a number", f[1])
	}
	return exact, colorOnly, nil
}

// autoPlay lets the assistant break secret and prints the transcript.
func autoPlay(out io.Writer, cfg solver.Config, secret string, opts solver.Options, ceiling int64) error {
	code, err := cfg.Parse(palette.Split(secret))
	if err != nil {
		return fmt.Errorf("secret: %w", err)
	}
	t, err := game.Solve(cfg, code, opts, ceiling, 0)
	if err != nil {
		return err
	}
	for i, r := range t.Rounds {
		fmt.Fprintf(out, "%2d. %s → %d exact, %d color only\n", i+1, cfg.Format(r.Guess), r.Score.Exact, r.Score.ColorOnly)
	}
	if t.State != game.StateSolved {
		return fmt.Errorf("game ended %s", t.State)
	}
	fmt.Fprintf(out, "Solved in %d rounds\n", len(t.Rounds))
	return nil
}
