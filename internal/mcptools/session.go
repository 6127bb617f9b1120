package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/robalobadob/mastermind/apps/go-server/internal/game"
	"github.com/robalobadob/mastermind/apps/go-server/internal/palette"
)

// --- mastermind_new_session ---

// NewSessionTool handles mastermind_new_session.
type NewSessionTool struct{ d Deps }

func NewNewSessionTool(d Deps) *NewSessionTool { return &NewSessionTool{d: d} }

func (t *NewSessionTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Start a new code-breaking session. The player keeps the secret; " +
			"this validates the game and counts the possible codes. Returns the session ID."),
	}
	return mcp.NewTool("mastermind_new_session", append(opts, configOptions(true)...)...)
}

func (t *NewSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := configFromArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sess := game.New(t.d.Options, t.d.Ceiling)
	if err := sess.Start(cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.d.Store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return mcp.NewToolResultText(renderSnapshot(sess.Snapshot(), nil)), nil
}

// --- mastermind_next_guess ---

// NextGuessTool handles mastermind_next_guess.
type NextGuessTool struct{ d Deps }

func NewNextGuessTool(d Deps) *NextGuessTool { return &NextGuessTool{d: d} }

func (t *NextGuessTool) Definition() mcp.Tool {
	return mcp.NewTool("mastermind_next_guess",
		mcp.WithDescription("Get the next guess to show the player. Calling again before "+
			"recording feedback returns the same guess."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID from mastermind_new_session"),
		),
	)
}

func (t *NextGuessTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := sessionID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var text string
	err = t.d.Store.Update(ctx, id, func(sess *game.Session) error {
		guess, err := sess.NextGuess()
		if err != nil && !errors.Is(err, game.ErrContradiction) {
			return err
		}
		var labels []string
		if guess != nil {
			labels = sess.Config().Labels(guess)
		}
		text = renderSnapshot(sess.Snapshot(), labels)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// --- mastermind_record_feedback ---

// FeedbackTool handles mastermind_record_feedback.
type FeedbackTool struct{ d Deps }

func NewFeedbackTool(d Deps) *FeedbackTool { return &FeedbackTool{d: d} }

func (t *FeedbackTool) Definition() mcp.Tool {
	return mcp.NewTool("mastermind_record_feedback",
		mcp.WithDescription("Record the player's answer to a guess. Without 'guess' the "+
			"pending guess from mastermind_next_guess is used."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID from mastermind_new_session"),
		),
		mcp.WithNumber("exact",
			mcp.Required(),
			mcp.Description("Pegs with the right color in the right place"),
		),
		mcp.WithNumber("color_only",
			mcp.Required(),
			mcp.Description("Pegs with the right color in the wrong place"),
		),
		mcp.WithString("guess",
			mcp.Description("The guess that was played, as labels separated by commas or spaces"),
		),
	)
}

func (t *FeedbackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := sessionID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exact, ok, err := intArg(req, "exact")
	if err != nil || !ok {
		return mcp.NewToolResultError("'exact' is required and must be a whole number"), nil
	}
	colorOnly, ok, err := intArg(req, "color_only")
	if err != nil || !ok {
		return mcp.NewToolResultError("'color_only' is required and must be a whole number"), nil
	}
	labels := palette.Split(req.GetString("guess", ""))

	var text string
	err = t.d.Store.Update(ctx, id, func(sess *game.Session) error {
		if sess.State() != game.StateInProgress {
			return fmt.Errorf("%w: session is %s", game.ErrWrongState, sess.State())
		}
		guess := sess.Pending()
		if len(labels) > 0 {
			g, err := sess.Config().Parse(labels)
			if err != nil {
				return fmt.Errorf("%w: %v", game.ErrInvalidFeedback, err)
			}
			guess = g
		}
		if guess == nil {
			return fmt.Errorf("%w: no guess given and none pending", game.ErrInvalidFeedback)
		}
		if _, err := sess.RecordFeedback(guess, exact, colorOnly); err != nil {
			return err
		}
		text = renderSnapshot(sess.Snapshot(), nil)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// --- mastermind_restart ---

// RestartTool handles mastermind_restart.
type RestartTool struct{ d Deps }

func NewRestartTool(d Deps) *RestartTool { return &RestartTool{d: d} }

func (t *RestartTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Discard the current game. With 'pegs' a new game starts right away " +
			"in the same session."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID from mastermind_new_session"),
		),
	}
	return mcp.NewTool("mastermind_restart", append(opts, configOptions(false)...)...)
}

func (t *RestartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := sessionID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, wantStart, err := intArg(req, "pegs")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var text string
	err = t.d.Store.Update(ctx, id, func(sess *game.Session) error {
		sess.Restart()
		if wantStart {
			cfg, err := configFromArgs(req)
			if err != nil {
				return err
			}
			if err := sess.Start(cfg); err != nil {
				return err
			}
		}
		text = renderSnapshot(sess.Snapshot(), nil)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// --- mastermind_session ---

// SessionTool handles mastermind_session.
type SessionTool struct{ d Deps }

func NewSessionTool(d Deps) *SessionTool { return &SessionTool{d: d} }

func (t *SessionTool) Definition() mcp.Tool {
	return mcp.NewTool("mastermind_session",
		mcp.WithDescription("Show a session: configuration, history, remaining codes and state."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID from mastermind_new_session"),
		),
	)
}

func (t *SessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := sessionID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var snap game.Snapshot
	err = t.d.Store.Update(ctx, id, func(sess *game.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderSnapshot(snap, snap.Pending)), nil
}
