// apps/go-server/internal/game/types.go
//
// Core type definitions for a code-breaking session.
// Defines:
//   - State: where the session is in its lifecycle.
//   - Session: configuration, candidates, guess universe and evidence log
//     for one game.
//   - Snapshot: a label-rendered, read-only view for transports.

package game

import (
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

// State is the lifecycle position of a Session.
//
//	configuring → in_progress → solved | contradiction
//
// Restart returns any state to configuring.
type State string

const (
	StateConfiguring   State = "configuring"
	StateInProgress    State = "in_progress"
	StateSolved        State = "solved"
	StateContradiction State = "contradiction"
)

// Terminal reports whether only Restart is accepted.
func (s State) Terminal() bool { return s == StateSolved || s == StateContradiction }

// ContradictionMessage explains the contradiction state to a player.
const ContradictionMessage = "Ran out of possible codes. There might be a contradiction in the feedback you entered."

// Session holds the state of one game between the assistant and the player
// who knows the secret. A Session is owned by one caller at a time.
type Session struct {
	ID string // Unique session identifier (uuid).

	opts    solver.Options
	ceiling int64

	state      State
	cfg        solver.Config
	run        int               // incremented on every Start
	candidates []solver.Sequence // consistent with every evidence entry
	universe   []solver.Sequence // full space from Start, never filtered
	evidence   []solver.Evidence // append only
	pending    solver.Sequence   // last proposed guess awaiting feedback
	solution   solver.Sequence   // set when solved
	rounds     int               // feedback entries accepted, including the winning one
	selector   *solver.Selector
}

// EvidenceView is one round rendered with palette labels.
type EvidenceView struct {
	Guess     []string `json:"guess"`
	Exact     int      `json:"exact"`
	ColorOnly int      `json:"colorOnly"`
}

// Snapshot is a read-only view of a Session.
type Snapshot struct {
	ID        string         `json:"id"`
	State     State          `json:"state"`
	Run       int            `json:"run"`
	NumPegs   int            `json:"numPegs,omitempty"`
	Colors    []string       `json:"colors,omitempty"`
	Policy    string         `json:"policy,omitempty"`
	Remaining int            `json:"remaining"`
	Rounds    int            `json:"rounds"`
	Evidence  []EvidenceView `json:"evidence"`
	Pending   []string       `json:"pending,omitempty"`
	Solution  []string       `json:"solution,omitempty"`
	Message   string         `json:"message,omitempty"`
}
