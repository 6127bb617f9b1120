package solver

import "testing"

func classic() Config {
	return NewConfig(4, []string{"Red", "Green", "Blue", "Yellow", "Orange", "Purple"}, Unlimited())
}

func TestOpening(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Sequence
	}{
		{"classic", classic(), Sequence{0, 1, 0, 1}},
		{"five pegs", NewConfig(5, []string{"a", "b", "c"}, Unlimited()), Sequence{0, 1, 0, 1, 0}},
		{"limited two, four pegs", NewConfig(4, []string{"a", "b", "c"}, Limited(2)), Sequence{0, 1, 0, 1}},
		{"no dups", NewConfig(4, []string{"a", "b", "c", "d"}, None()), nil},
		{"three pegs", NewConfig(3, []string{"a", "b", "c"}, Unlimited()), nil},
		{"limited one", NewConfig(4, []string{"a", "b", "c", "d"}, Limited(1)), nil},
		{"pattern breaks limit", NewConfig(6, []string{"a", "b", "c"}, Limited(2)), nil},
		{"single color", NewConfig(4, []string{"a"}, Unlimited()), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Opening(tt.cfg)
			if ok != (tt.want != nil) {
				t.Fatalf("ok = %v, want %v", ok, tt.want != nil)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Opening = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChoose_SingleCandidate(t *testing.T) {
	sel := NewSelector(classic(), StrictOptions())
	only := Sequence{5, 4, 3, 2}
	if got := sel.Choose([]Sequence{only}, nil, true); !got.Equal(only) {
		t.Errorf("Choose = %v, want %v", got, only)
	}
}

func TestChoose_NoCandidates(t *testing.T) {
	sel := NewSelector(classic(), StrictOptions())
	if got := sel.Choose(nil, nil, false); got != nil {
		t.Errorf("Choose = %v, want nil", got)
	}
}

func TestChoose_FirstRoundWithoutOpeningUsesFirstCandidate(t *testing.T) {
	cfg := NewConfig(3, []string{"A", "B", "C"}, None())
	space, _ := GenerateConfig(cfg)
	sel := NewSelector(cfg, StrictOptions())
	if got := sel.Choose(space, space, true); !got.Equal(Sequence{0, 1, 2}) {
		t.Errorf("Choose = %v, want [0 1 2]", got)
	}
}

func TestChoose_ClassicFullSpaceMinimax(t *testing.T) {
	cfg := classic()
	space, _ := GenerateConfig(cfg)
	sel := NewSelector(cfg, StrictOptions())

	got := sel.Choose(space, space, false)
	if !got.Equal(Sequence{0, 0, 1, 1}) {
		t.Errorf("Choose = %v, want [0 0 1 1]", got)
	}
	if w := sel.WorstBucket(got, space); w != 256 {
		t.Errorf("worst bucket = %d, want 256", w)
	}
}

func TestChoose_UniverseBeatsCandidates(t *testing.T) {
	cfg := NewConfig(3, []string{"a", "b", "c", "d"}, Unlimited())
	universe, _ := GenerateConfig(cfg)
	candidates := []Sequence{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}}
	sel := NewSelector(cfg, StrictOptions())

	got := sel.Choose(candidates, universe, false)
	if !got.Equal(Sequence{1, 1, 2}) {
		t.Errorf("Choose = %v, want [1 1 2]", got)
	}
	if w := sel.WorstBucket(got, candidates); w != 1 {
		t.Errorf("worst bucket = %d, want 1", w)
	}
}

func TestChoose_TwoCandidatesSkipUniverse(t *testing.T) {
	cfg := NewConfig(3, []string{"a", "b", "c", "d"}, Unlimited())
	universe, _ := GenerateConfig(cfg)
	candidates := []Sequence{{3, 3, 3}, {2, 2, 2}}
	sel := NewSelector(cfg, StrictOptions())
	if got := sel.Choose(candidates, universe, false); !got.Equal(Sequence{3, 3, 3}) {
		t.Errorf("Choose = %v, want first candidate [3 3 3]", got)
	}
}

func TestChoose_TieGoesToFirstEvaluated(t *testing.T) {
	cfg := NewConfig(3, []string{"a", "b", "c", "d"}, Unlimited())
	// Each candidate leaves the other two in one bucket, so all three tie
	// at a worst bucket of 2 and no universe is offered.
	candidates := []Sequence{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}}
	sel := NewSelector(cfg, StrictOptions())
	if got := sel.Choose(candidates, nil, false); !got.Equal(Sequence{1, 1, 1}) {
		t.Errorf("Choose = %v, want [1 1 1]", got)
	}
}

func TestChoose_BoundedStopsEarly(t *testing.T) {
	cfg := classic()
	space, _ := GenerateConfig(cfg)
	sel := NewSelector(cfg, Options{AcceptWorst: 1, AcceptDivisor: 2})

	// Any guess whose worst bucket is at most 648 is accepted, so the very
	// first candidate (625) ends the search.
	if got := sel.Choose(space, space, false); !got.Equal(Sequence{0, 0, 0, 0}) {
		t.Errorf("Choose = %v, want [0 0 0 0]", got)
	}
}

func TestChoose_CapsCandidatePool(t *testing.T) {
	cfg := classic()
	space, _ := GenerateConfig(cfg)
	sel := NewSelector(cfg, Options{AcceptWorst: 1, MaxCandidateGuesses: 3, MaxUniverseGuesses: 3})

	// Only [0 0 0 0], [0 0 0 1] and [0 0 0 2] are evaluated from each pool.
	if got := sel.Choose(space, space, false); !got.Equal(Sequence{0, 0, 0, 1}) {
		t.Errorf("Choose = %v, want [0 0 0 1]", got)
	}
}

func TestPartition(t *testing.T) {
	candidates := []Sequence{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}}
	parts := Partition(Sequence{1, 1, 2}, candidates)
	if len(parts) != 3 {
		t.Fatalf("len = %d, want 3", len(parts))
	}
	if got := parts[Score{Exact: 2}]; len(got) != 1 || !got[0].Equal(Sequence{1, 1, 1}) {
		t.Errorf("bucket {2 0} = %v", got)
	}
}
