package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/schollz/progressbar/v3"

	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

func abc(pegs int) solver.Config {
	return solver.NewConfig(pegs, []string{"a", "b", "c"}, solver.Unlimited())
}

func TestInteractive_Solves(t *testing.T) {
	var out bytes.Buffer
	// Secret "b": the first guess is "a", then "b" splits {b, c} perfectly.
	in := strings.NewReader("0 0\n1 0\n")
	if err := interactive(in, &out, abc(1), solver.StrictOptions(), 0); err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if !strings.Contains(out.String(), "Solved in 2 rounds: b") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestInteractive_BadInputRepeatsGuess(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("one two\n1 1\nq\n")
	if err := interactive(in, &out, abc(1), solver.StrictOptions(), 0); err != nil {
		t.Fatalf("interactive: %v", err)
	}
	text := out.String()
	if strings.Count(text, "Guess 1: a") != 3 {
		t.Errorf("guess should be asked three times:\n%s", text)
	}
	if !strings.Contains(text, "not a number") || !strings.Contains(text, "invalid feedback") {
		t.Errorf("errors not reported:\n%s", text)
	}
}

func TestInteractive_Contradiction(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("0 0\n0 0\n0 0\n")
	if err := interactive(in, &out, abc(1), solver.StrictOptions(), 0); err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if !strings.Contains(out.String(), "contradiction") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestParseFeedback(t *testing.T) {
	e, c, err := parseFeedback(" 1, 2 ")
	if err != nil || e != 1 || c != 2 {
		t.Errorf("parseFeedback = %d, %d, %v", e, c, err)
	}
	for _, bad := range []string{"", "1", "1 2 3", "x 1", "1 y"} {
		if _, _, err := parseFeedback(bad); err == nil {
			t.Errorf("parseFeedback(%q) succeeded", bad)
		}
	}
}

func TestAutoPlay(t *testing.T) {
	var out bytes.Buffer
	if err := autoPlay(&out, abc(2), "c, a", solver.StrictOptions(), 0); err != nil {
		t.Fatalf("autoPlay: %v", err)
	}
	if !strings.Contains(out.String(), "Solved in") || !strings.Contains(out.String(), "c, a → 2 exact") {
		t.Errorf("output:\n%s", out.String())
	}
	if err := autoPlay(&out, abc(2), "c, z", solver.StrictOptions(), 0); err == nil {
		t.Error("unknown color in secret accepted")
	}
}

func TestRunBench(t *testing.T) {
	cfg := abc(3)
	res, err := runBench(context.Background(), cfg, solver.StrictOptions(), 0, 4, progressbar.DefaultSilent(27))
	if err != nil {
		t.Fatalf("runBench: %v", err)
	}
	if res.Secrets != 27 || res.Max < 1 || res.Max > 5 {
		t.Errorf("result = %+v", res)
	}
	sum := 0
	for _, n := range res.Histogram {
		sum += n
	}
	if sum != 27 || res.Histogram[1] != 1 {
		t.Errorf("histogram = %v", res.Histogram)
	}

	var out bytes.Buffer
	res.print(&out)
	if !strings.HasPrefix(out.String(), "secrets: 27\n") {
		t.Errorf("print:\n%s", out.String())
	}
}

func TestSummarize(t *testing.T) {
	res := summarize([]int{1, 3, 3, 5})
	if res.Max != 5 || res.Mean != 3 || res.Histogram[3] != 2 {
		t.Errorf("summarize = %+v", res)
	}
	if empty := summarize(nil); empty.Mean != 0 || empty.Secrets != 0 {
		t.Errorf("empty = %+v", empty)
	}
}

func TestCheckCommand(t *testing.T) {
	t.Setenv("SPACE_CEILING", "")
	t.Setenv("SOLVER_MODE", "")
	t.Setenv("LOG_FORMAT", "")
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"check", "--pegs", "4", "--colors", "a b c d e f", "--policy", "limited", "--max-dups", "2"})
	if err := root.Execute(); err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out.String(), "1170 possible codes") || !strings.Contains(out.String(), "ok (limit 500000)") {
		t.Errorf("output:\n%s", out.String())
	}
}
