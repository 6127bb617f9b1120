// apps/go-server/internal/game/engine.go
//
// Session engine for the code-breaking assistant.
// Responsibilities:
//   - Validate a configuration (structure and candidate-space ceiling).
//   - Propose guesses through the minimax selector.
//   - Record feedback, narrow the candidates and detect solved/contradiction.
//   - Restart back to configuring.
//
// Notes:
//   - The candidate set only ever shrinks; after every call it equals the
//     full space filtered by the whole evidence log.
//   - Sessions are not safe for concurrent use; the store serialises access.

package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

var (
	// ErrInvalidFeedback rejects feedback that no round could produce. The
	// session is left untouched.
	ErrInvalidFeedback = errors.New("invalid feedback")
	// ErrContradiction signals that no candidate fits the evidence. It is a
	// terminal outcome, not a fault.
	ErrContradiction = errors.New("contradiction")
	// ErrWrongState rejects an operation the current state does not accept.
	ErrWrongState = errors.New("operation not allowed in current state")
)

// New constructs a session in the configuring state.
// A ceiling of zero or less means solver.DefaultCeiling.
func New(opts solver.Options, ceiling int64) *Session {
	if ceiling <= 0 {
		ceiling = solver.DefaultCeiling
	}
	return &Session{
		ID:      uuid.NewString(),
		opts:    opts,
		ceiling: ceiling,
		state:   StateConfiguring,
	}
}

// Start validates cfg and, on success, generates the candidate space and
// moves to in_progress. On error the session stays configuring.
func (s *Session) Start(cfg solver.Config) error {
	if s.state != StateConfiguring {
		return fmt.Errorf("%w: start requires %s, session is %s", ErrWrongState, StateConfiguring, s.state)
	}
	if _, err := solver.CheckSize(cfg, s.ceiling); err != nil {
		return err
	}
	space, err := solver.GenerateConfig(cfg)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.run++
	// Filter never writes to its input, so the candidates and the guess
	// universe share one generated space.
	s.candidates = space
	s.universe = space
	s.evidence = nil
	s.pending = nil
	s.solution = nil
	s.rounds = 0
	s.selector = solver.NewSelector(cfg, s.opts)
	s.state = StateInProgress
	return nil
}

// NextGuess returns the guess to present to the player. Calling it again
// before feedback is recorded returns the same guess.
//
// When no candidate is left the session moves to contradiction and
// ErrContradiction is returned.
func (s *Session) NextGuess() (solver.Sequence, error) {
	if s.state != StateInProgress {
		if s.state == StateContradiction {
			return nil, ErrContradiction
		}
		return nil, fmt.Errorf("%w: next guess requires %s, session is %s", ErrWrongState, StateInProgress, s.state)
	}
	if s.pending != nil {
		return s.pending.Clone(), nil
	}
	if len(s.candidates) == 0 {
		s.state = StateContradiction
		return nil, ErrContradiction
	}

	guess := s.selector.Choose(s.candidates, s.universe, len(s.evidence) == 0)
	s.pending = guess.Clone()
	return guess.Clone(), nil
}

// RecordFeedback applies the player's answer for guess. Any well-formed
// guess is accepted, not only the last one proposed.
//
// exact == NumPegs solves the game. Otherwise the evidence is appended and
// the candidates are narrowed; if none survive the session moves to
// contradiction. Invalid input returns ErrInvalidFeedback and changes nothing.
func (s *Session) RecordFeedback(guess solver.Sequence, exact, colorOnly int) (State, error) {
	if s.state != StateInProgress {
		return s.state, fmt.Errorf("%w: feedback requires %s, session is %s", ErrWrongState, StateInProgress, s.state)
	}
	n := s.cfg.NumPegs
	switch {
	case len(guess) != n:
		return s.state, fmt.Errorf("%w: guess has %d pegs, want %d", ErrInvalidFeedback, len(guess), n)
	case !s.cfg.Contains(guess):
		return s.state, fmt.Errorf("%w: guess uses a color outside the palette", ErrInvalidFeedback)
	case exact < 0 || colorOnly < 0:
		return s.state, fmt.Errorf("%w: counts must not be negative", ErrInvalidFeedback)
	case exact+colorOnly > n:
		return s.state, fmt.Errorf("%w: exact (%d) plus color-only (%d) exceeds the %d pegs",
			ErrInvalidFeedback, exact, colorOnly, n)
	}

	s.pending = nil
	s.rounds++
	if exact == n {
		s.solution = guess.Clone()
		s.state = StateSolved
		return s.state, nil
	}

	ev := solver.Evidence{Guess: guess.Clone(), Exact: exact, ColorOnly: colorOnly}
	s.evidence = append(s.evidence, ev)
	// Candidates already satisfy the earlier entries, so only the new one
	// needs checking.
	s.candidates = solver.Filter(s.candidates, []solver.Evidence{ev})
	if len(s.candidates) == 0 {
		s.state = StateContradiction
	}
	return s.state, nil
}

// Restart discards the game and returns to configuring. The session ID is kept.
func (s *Session) Restart() {
	s.state = StateConfiguring
	s.cfg = solver.Config{}
	s.candidates = nil
	s.universe = nil
	s.evidence = nil
	s.pending = nil
	s.solution = nil
	s.rounds = 0
	s.selector = nil
}

// State reports the lifecycle state.
func (s *Session) State() State { return s.state }

// Config returns the active configuration.
func (s *Session) Config() solver.Config { return s.cfg }

// Run counts how many times the session has been started.
func (s *Session) Run() int { return s.run }

// Rounds is the number of feedback entries accepted in this run.
func (s *Session) Rounds() int { return s.rounds }

// Remaining is the number of candidate secrets left.
func (s *Session) Remaining() int { return len(s.candidates) }

// Candidates returns the remaining candidate secrets. The slice must not be
// modified.
func (s *Session) Candidates() []solver.Sequence { return s.candidates }

// Evidence returns a copy of the evidence log.
func (s *Session) Evidence() []solver.Evidence {
	out := make([]solver.Evidence, len(s.evidence))
	copy(out, s.evidence)
	return out
}

// Pending returns the proposed guess still awaiting feedback, if any.
func (s *Session) Pending() solver.Sequence { return s.pending.Clone() }

// Solution returns the winning guess once solved.
func (s *Session) Solution() solver.Sequence { return s.solution.Clone() }

// Snapshot renders the session for presentation.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:        s.ID,
		State:     s.state,
		Run:       s.run,
		Remaining: len(s.candidates),
		Rounds:    s.rounds,
		Evidence:  make([]EvidenceView, 0, len(s.evidence)),
	}
	if s.state == StateConfiguring {
		return snap
	}
	snap.NumPegs = s.cfg.NumPegs
	snap.Colors = append([]string(nil), s.cfg.Colors...)
	snap.Policy = s.cfg.Policy.String()
	for _, e := range s.evidence {
		snap.Evidence = append(snap.Evidence, EvidenceView{
			Guess:     s.cfg.Labels(e.Guess),
			Exact:     e.Exact,
			ColorOnly: e.ColorOnly,
		})
	}
	if s.pending != nil {
		snap.Pending = s.cfg.Labels(s.pending)
	}
	if s.solution != nil {
		snap.Solution = s.cfg.Labels(s.solution)
	}
	if s.state == StateContradiction {
		snap.Message = ContradictionMessage
	}
	return snap
}
