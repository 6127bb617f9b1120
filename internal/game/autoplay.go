package game

import (
	"errors"
	"fmt"

	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

// Round is one guess of an automatic game and the feedback it received.
type Round struct {
	Guess solver.Sequence
	Score solver.Score
}

// Transcript is the outcome of Solve.
type Transcript struct {
	Secret solver.Sequence
	Rounds []Round
	State  State
}

// Solve plays a full game against a known secret: the session proposes
// guesses and the secret answers them. maxRounds <= 0 means no limit.
func Solve(cfg solver.Config, secret solver.Sequence, opts solver.Options, ceiling int64, maxRounds int) (Transcript, error) {
	t := Transcript{Secret: secret.Clone()}
	s := New(opts, ceiling)
	if err := s.Start(cfg); err != nil {
		return t, err
	}
	if !cfg.Admits(secret) {
		return t, fmt.Errorf("%w: secret %v does not fit the configuration", solver.ErrInvalidConfiguration, secret)
	}

	for maxRounds <= 0 || len(t.Rounds) < maxRounds {
		guess, err := s.NextGuess()
		if errors.Is(err, ErrContradiction) {
			t.State = StateContradiction
			return t, nil
		}
		if err != nil {
			return t, err
		}
		sc := solver.Compare(secret, guess)
		t.Rounds = append(t.Rounds, Round{Guess: guess, Score: sc})
		state, err := s.RecordFeedback(guess, sc.Exact, sc.ColorOnly)
		if err != nil {
			return t, err
		}
		if state.Terminal() {
			t.State = state
			return t, nil
		}
	}
	t.State = s.State()
	return t, nil
}
