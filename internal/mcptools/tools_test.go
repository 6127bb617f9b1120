package mcptools

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
	"github.com/robalobadob/mastermind/apps/go-server/internal/store"
)

// --- Helpers ---

func testDeps() Deps {
	return Deps{Store: store.NewMemoryStore(), Options: solver.StrictOptions()}
}

func call(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	return result
}

// isErrorResult checks if a CallToolResult is an error result.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

var (
	sessionRe = regexp.MustCompile(`Session: (\S+)`)
	guessRe   = regexp.MustCompile(`Next guess: (.+)`)
)

func newSession(t *testing.T, d Deps, args map[string]interface{}) string {
	t.Helper()
	res := call(t, NewNewSessionTool(d).Handle, args)
	if isErrorResult(res) {
		t.Fatalf("new session failed: %s", getResultText(res))
	}
	m := sessionRe.FindStringSubmatch(getResultText(res))
	if m == nil {
		t.Fatalf("no session ID in %q", getResultText(res))
	}
	return m[1]
}

// --- Definitions ---

func TestDefinitions_Names(t *testing.T) {
	d := testDeps()
	names := []string{
		NewNewSessionTool(d).Definition().Name,
		NewNextGuessTool(d).Definition().Name,
		NewFeedbackTool(d).Definition().Name,
		NewRestartTool(d).Definition().Name,
		NewSessionTool(d).Definition().Name,
		NewScoreTool().Definition().Name,
		NewCheckTool(d).Definition().Name,
	}
	for _, n := range names {
		if !strings.HasPrefix(n, "mastermind_") {
			t.Errorf("tool name %q lacks prefix", n)
		}
	}
	if New(d) == nil {
		t.Error("New returned nil")
	}
}

// --- Full game ---

func TestTools_SolveSecret(t *testing.T) {
	d := testDeps()
	id := newSession(t, d, map[string]interface{}{
		"pegs":    float64(4),
		"palette": "classic",
	})
	secret := []string{"Blue", "Yellow", "Yellow", "Red"}

	for round := 0; round < 6; round++ {
		res := call(t, NewNextGuessTool(d).Handle, map[string]interface{}{"session_id": id})
		if isErrorResult(res) {
			t.Fatalf("next guess: %s", getResultText(res))
		}
		m := guessRe.FindStringSubmatch(getResultText(res))
		if m == nil {
			t.Fatalf("no guess in %q", getResultText(res))
		}
		guess := strings.Split(strings.TrimSpace(m[1]), ", ")
		sc, err := solver.CompareLabels(secret, guess)
		if err != nil {
			t.Fatalf("CompareLabels(%v): %v", guess, err)
		}
		fb := call(t, NewFeedbackTool(d).Handle, map[string]interface{}{
			"session_id": id,
			"exact":      float64(sc.Exact),
			"color_only": float64(sc.ColorOnly),
		})
		if isErrorResult(fb) {
			t.Fatalf("feedback: %s", getResultText(fb))
		}
		if strings.Contains(getResultText(fb), "State: solved") {
			if !strings.Contains(getResultText(fb), "Solved: Blue, Yellow, Yellow, Red") {
				t.Errorf("solution missing from %q", getResultText(fb))
			}
			return
		}
	}
	t.Fatal("not solved within 6 rounds")
}

// --- Errors ---

func TestNewSession_Errors(t *testing.T) {
	d := testDeps()
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing pegs", map[string]interface{}{"colors": "a b"}, "'pegs' is required"},
		{"fractional pegs", map[string]interface{}{"pegs": 2.5, "colors": "a b"}, "whole number"},
		{"no dups too few colors", map[string]interface{}{"pegs": float64(3), "colors": "a b", "policy": "none"}, "at least as many colors"},
		{"limited without max", map[string]interface{}{"pegs": float64(3), "colors": "a b", "policy": "limited"}, "maxDups"},
		{"too large", map[string]interface{}{"pegs": float64(8), "colors": "a b c d e f"}, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, NewNewSessionTool(d).Handle, tt.args)
			if !isErrorResult(res) {
				t.Fatalf("expected error, got %q", getResultText(res))
			}
			if !strings.Contains(getResultText(res), tt.want) {
				t.Errorf("error %q does not mention %q", getResultText(res), tt.want)
			}
		})
	}
	if d.Store.Len() != 0 {
		t.Errorf("failed sessions were stored: %d", d.Store.Len())
	}
}

func TestFeedback_Errors(t *testing.T) {
	d := testDeps()
	id := newSession(t, d, map[string]interface{}{"pegs": float64(3), "colors": "a b c"})

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"unknown session", map[string]interface{}{"session_id": "nope", "exact": float64(0), "color_only": float64(0)}},
		{"missing exact", map[string]interface{}{"session_id": id, "color_only": float64(0)}},
		{"nothing pending", map[string]interface{}{"session_id": id, "exact": float64(0), "color_only": float64(0)}},
		{"bad label", map[string]interface{}{"session_id": id, "guess": "a b z", "exact": float64(0), "color_only": float64(0)}},
		{"sum too big", map[string]interface{}{"session_id": id, "guess": "a a b", "exact": float64(2), "color_only": float64(2)}},
	}
	for _, tt := range tests {
		if res := call(t, NewFeedbackTool(d).Handle, tt.args); !isErrorResult(res) {
			t.Errorf("%s: expected error, got %q", tt.name, getResultText(res))
		}
	}
}

func TestFeedback_ContradictionThenRestart(t *testing.T) {
	d := testDeps()
	id := newSession(t, d, map[string]interface{}{"pegs": float64(3), "colors": "a, b, c"})

	res := call(t, NewFeedbackTool(d).Handle, map[string]interface{}{
		"session_id": id, "guess": "a b c", "exact": float64(2), "color_only": float64(1),
	})
	if isErrorResult(res) || !strings.Contains(getResultText(res), "State: contradiction") {
		t.Fatalf("expected contradiction, got %q", getResultText(res))
	}

	res = call(t, NewNextGuessTool(d).Handle, map[string]interface{}{"session_id": id})
	if isErrorResult(res) || strings.Contains(getResultText(res), "Next guess") {
		t.Errorf("next guess after contradiction = %q", getResultText(res))
	}

	res = call(t, NewRestartTool(d).Handle, map[string]interface{}{"session_id": id})
	if !strings.Contains(getResultText(res), "State: configuring") {
		t.Errorf("restart = %q", getResultText(res))
	}
	res = call(t, NewRestartTool(d).Handle, map[string]interface{}{
		"session_id": id, "pegs": float64(2), "colors": "x y z", "policy": "none",
	})
	if isErrorResult(res) || !strings.Contains(getResultText(res), "possible codes left: 6") {
		t.Errorf("restart with config = %q", getResultText(res))
	}

	res = call(t, NewSessionTool(d).Handle, map[string]interface{}{"session_id": id})
	if !strings.Contains(getResultText(res), "duplicates none") {
		t.Errorf("session = %q", getResultText(res))
	}
}

// --- Utilities ---

func TestScoreTool(t *testing.T) {
	res := call(t, NewScoreTool().Handle, map[string]interface{}{
		"secret": "Red Red Green Blue",
		"guess":  "Red, Green, Red, Green",
	})
	if isErrorResult(res) || getResultText(res) != "exact: 1\ncolor only: 2" {
		t.Errorf("score = %q", getResultText(res))
	}
	res = call(t, NewScoreTool().Handle, map[string]interface{}{"secret": "a b", "guess": "a"})
	if !isErrorResult(res) {
		t.Error("length mismatch should be an error")
	}
}

func TestCheckTool(t *testing.T) {
	d := testDeps()
	res := call(t, NewCheckTool(d).Handle, map[string]interface{}{"pegs": float64(4), "colors": "a b c d e f", "policy": "limited", "max_dups": float64(2)})
	if isErrorResult(res) || !strings.HasPrefix(getResultText(res), "ok: 1170 possible codes") {
		t.Errorf("check = %q", getResultText(res))
	}
	res = call(t, NewCheckTool(d).Handle, map[string]interface{}{"pegs": float64(8), "colors": "a b c d e f"})
	if isErrorResult(res) || !strings.HasPrefix(getResultText(res), "too large: 1679616") {
		t.Errorf("check = %q", getResultText(res))
	}
}
