package solver

import "testing"

func TestFilter_KeepsOnlyConsistent(t *testing.T) {
	space, _ := Generate(4, 4, Unlimited())
	secret := Sequence{red, red, green, blue}
	guess := Sequence{red, green, red, green}
	log := []Evidence{{Guess: guess, Exact: 1, ColorOnly: 2}}

	got := Filter(space, log)
	if len(got) == 0 || len(got) >= len(space) {
		t.Fatalf("len = %d, want 0 < len < %d", len(got), len(space))
	}
	found := false
	for _, c := range got {
		if Compare(c, guess) != (Score{1, 2}) {
			t.Fatalf("%v kept but scores %+v", c, Compare(c, guess))
		}
		if c.Equal(secret) {
			found = true
		}
	}
	if !found {
		t.Error("true secret was filtered out")
	}
}

func TestFilter_IdempotentAndOrderPreserving(t *testing.T) {
	space, _ := Generate(4, 5, Unlimited())
	log := []Evidence{
		{Guess: Sequence{0, 0, 1, 1}, Exact: 1, ColorOnly: 1},
		{Guess: Sequence{2, 3, 4, 0}, Exact: 0, ColorOnly: 2},
	}
	first := Filter(space, log)
	second := Filter(space, log)
	again := Filter(first, log)
	if len(first) != len(second) || len(first) != len(again) {
		t.Fatalf("lengths differ: %d %d %d", len(first), len(second), len(again))
	}
	for i := range first {
		if !first[i].Equal(second[i]) || !first[i].Equal(again[i]) {
			t.Fatalf("element %d differs", i)
		}
		if i > 0 && !lexLess(first[i-1], first[i]) {
			t.Fatalf("order not preserved at %d: %v before %v", i, first[i-1], first[i])
		}
	}
}

func TestFilter_Monotone(t *testing.T) {
	space, _ := Generate(4, 6, Unlimited())
	secret := Sequence{3, 1, 4, 1}
	var log []Evidence
	prev := len(space)
	for _, g := range []Sequence{{0, 0, 1, 1}, {2, 2, 3, 4}, {1, 3, 5, 0}, {3, 1, 4, 2}} {
		sc := Compare(secret, g)
		log = append(log, Evidence{Guess: g, Exact: sc.Exact, ColorOnly: sc.ColorOnly})
		n := len(Filter(space, log))
		if n > prev {
			t.Fatalf("candidate count grew from %d to %d", prev, n)
		}
		prev = n
	}
}

func TestFilter_ContradictionIsEmpty(t *testing.T) {
	space, _ := Generate(4, 4, Unlimited())
	// Three exact plus one color-only is impossible for any secret.
	log := []Evidence{{Guess: Sequence{0, 1, 2, 3}, Exact: 3, ColorOnly: 1}}
	if got := Filter(space, log); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	space, _ := Generate(2, 3, Unlimited())
	before := len(space)
	_ = Filter(space, []Evidence{{Guess: Sequence{0, 0}, Exact: 2}})
	if len(space) != before || !space[0].Equal(Sequence{0, 0}) || !space[1].Equal(Sequence{0, 1}) {
		t.Error("input slice was modified")
	}
}

func lexLess(a, b Sequence) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
