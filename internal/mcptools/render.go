package mcptools

import (
	"fmt"
	"strings"

	"github.com/robalobadob/mastermind/apps/go-server/internal/game"
)

// renderSnapshot formats a session for the agent. guess, when set, is the
// proposal to show the player.
func renderSnapshot(snap game.Snapshot, guess []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", snap.ID)
	fmt.Fprintf(&b, "State: %s\n", snap.State)
	if snap.State == game.StateConfiguring {
		b.WriteString("No game configured. Call mastermind_restart with pegs and colors to start.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Game: %d pegs, colors [%s], duplicates %s\n", snap.NumPegs, strings.Join(snap.Colors, ", "), snap.Policy)
	fmt.Fprintf(&b, "Rounds: %d, possible codes left: %d\n", snap.Rounds, snap.Remaining)

	if len(snap.Evidence) > 0 {
		b.WriteString("\nHistory:\n")
		for i, e := range snap.Evidence {
			fmt.Fprintf(&b, "%d. %s → exact %d, color only %d\n", i+1, strings.Join(e.Guess, ", "), e.Exact, e.ColorOnly)
		}
	}

	switch snap.State {
	case game.StateSolved:
		fmt.Fprintf(&b, "\nSolved: %s\n", strings.Join(snap.Solution, ", "))
	case game.StateContradiction:
		fmt.Fprintf(&b, "\n%s\n", snap.Message)
	default:
		if guess != nil {
			fmt.Fprintf(&b, "\nNext guess: %s\n", strings.Join(guess, ", "))
			b.WriteString("Ask the player how many pegs are the right color in the right place (exact) and how many are the right color in the wrong place (color only).\n")
		}
	}
	return b.String()
}
