package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/robalobadob/mastermind/apps/go-server/internal/palette"
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

// ScoreTool handles mastermind_score.
type ScoreTool struct{}

func NewScoreTool() *ScoreTool { return &ScoreTool{} }

func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("mastermind_score",
		mcp.WithDescription("Score a guess against a known secret. Useful to double-check "+
			"the feedback a player gave."),
		mcp.WithString("secret",
			mcp.Required(),
			mcp.Description("Secret code as labels separated by commas or spaces"),
		),
		mcp.WithString("guess",
			mcp.Required(),
			mcp.Description("Guess as labels separated by commas or spaces"),
		),
	)
}

func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	secret := palette.Split(req.GetString("secret", ""))
	guess := palette.Split(req.GetString("guess", ""))
	sc, err := solver.CompareLabels(secret, guess)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("exact: %d\ncolor only: %d", sc.Exact, sc.ColorOnly)), nil
}

// CheckTool handles mastermind_check.
type CheckTool struct{ d Deps }

func NewCheckTool(d Deps) *CheckTool { return &CheckTool{d: d} }

func (t *CheckTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Count the possible codes for a game without starting it, and " +
			"report whether it fits the server's limit."),
	}
	return mcp.NewTool("mastermind_check", append(opts, configOptions(true)...)...)
}

func (t *CheckTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := configFromArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ceiling := t.d.Ceiling
	if ceiling <= 0 {
		ceiling = solver.DefaultCeiling
	}
	size, err := solver.CheckSize(cfg, ceiling)
	switch {
	case errors.Is(err, solver.ErrConfigurationTooLarge):
		return mcp.NewToolResultText(fmt.Sprintf("too large: %s possible codes, limit %d", size, ceiling)), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("ok: %s possible codes, limit %d", size, ceiling)), nil
}
