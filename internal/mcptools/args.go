package mcptools

import (
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/robalobadob/mastermind/apps/go-server/internal/palette"
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

// intArg reads a whole-number argument. ok is false when it is missing.
func intArg(req mcp.CallToolRequest, key string) (n int, ok bool, err error) {
	v, present := req.GetArguments()[key]
	if !present || v == nil {
		return 0, false, nil
	}
	f, isNum := v.(float64)
	if !isNum || f != math.Trunc(f) {
		return 0, true, fmt.Errorf("'%s' must be a whole number", key)
	}
	return int(f), true, nil
}

// configOptions are the arguments describing a game, shared by several tools.
func configOptions(required bool) []mcp.ToolOption {
	pegs := []mcp.PropertyOption{mcp.Description("Number of pegs in the code (1-20)")}
	if required {
		pegs = append(pegs, mcp.Required())
	}
	return []mcp.ToolOption{
		mcp.WithNumber("pegs", pegs...),
		mcp.WithString("palette",
			mcp.Description("Named palette, e.g. 'classic' (Red Green Blue Yellow Orange Purple). Overrides 'colors'."),
		),
		mcp.WithString("colors",
			mcp.Description("Color labels separated by commas or spaces, e.g. 'Red, Green, Blue'. Repeats are ignored."),
		),
		mcp.WithString("policy",
			mcp.Description("Duplicate rule for the secret"),
			mcp.Enum("unlimited", "limited", "none"),
			mcp.DefaultString("unlimited"),
		),
		mcp.WithNumber("max_dups",
			mcp.Description("For policy 'limited': how many times one color may appear"),
		),
	}
}

// configFromArgs builds a game configuration from the shared arguments.
func configFromArgs(req mcp.CallToolRequest) (solver.Config, error) {
	pegs, ok, err := intArg(req, "pegs")
	if err != nil {
		return solver.Config{}, err
	}
	if !ok {
		return solver.Config{}, fmt.Errorf("'pegs' is required")
	}
	maxDups, _, err := intArg(req, "max_dups")
	if err != nil {
		return solver.Config{}, err
	}
	colors, err := palette.Resolve(req.GetString("palette", ""), req.GetString("colors", ""), nil)
	if err != nil {
		return solver.Config{}, err
	}
	pol, err := solver.ParsePolicy(req.GetString("policy", "unlimited"), maxDups)
	if err != nil {
		return solver.Config{}, err
	}
	return solver.NewConfig(pegs, colors, pol), nil
}

func sessionID(req mcp.CallToolRequest) (string, error) {
	id := strings.TrimSpace(req.GetString("session_id", ""))
	if id == "" {
		return "", fmt.Errorf("'session_id' is required")
	}
	return id, nil
}
