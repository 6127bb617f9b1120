// Package mcptools exposes assistant sessions over the Model Context Protocol.
//
// A client (usually an LLM agent acting for the player who knows the secret)
// creates a session, asks for guesses and reports exact / color-only counts.
// Sessions live in the same store abstraction the HTTP server uses.
package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
	"github.com/robalobadob/mastermind/apps/go-server/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Deps are shared by every tool.
type Deps struct {
	Store   store.Store
	Options solver.Options
	Ceiling int64
}

// New creates the MCP server with every tool registered.
func New(d Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"mastermind",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	newSession := NewNewSessionTool(d)
	s.AddTool(newSession.Definition(), newSession.Handle)

	nextGuess := NewNextGuessTool(d)
	s.AddTool(nextGuess.Definition(), nextGuess.Handle)

	feedback := NewFeedbackTool(d)
	s.AddTool(feedback.Definition(), feedback.Handle)

	restart := NewRestartTool(d)
	s.AddTool(restart.Definition(), restart.Handle)

	session := NewSessionTool(d)
	s.AddTool(session.Definition(), session.Handle)

	score := NewScoreTool()
	s.AddTool(score.Definition(), score.Handle)

	check := NewCheckTool(d)
	s.AddTool(check.Definition(), check.Handle)

	return s
}

const instructions = `Mastermind code-breaking assistant.
The player thinks of a secret code; you never see it.
1. mastermind_new_session with pegs, colors and duplicate policy.
2. mastermind_next_guess, show the guess to the player.
3. mastermind_record_feedback with the player's exact and color-only counts.
Repeat 2-3 until the state is solved. A contradiction means some feedback was wrong;
use mastermind_restart to start over.`
