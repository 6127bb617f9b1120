package solver

import (
	"errors"
	"fmt"
	"testing"
)

func TestGenerate_UnlimitedIsCartesianPower(t *testing.T) {
	got, err := Generate(4, 6, Unlimited())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 1296 {
		t.Fatalf("len = %d, want 1296", len(got))
	}
	if !got[0].Equal(Sequence{0, 0, 0, 0}) {
		t.Errorf("first = %v, want [0 0 0 0]", got[0])
	}
	if !got[len(got)-1].Equal(Sequence{5, 5, 5, 5}) {
		t.Errorf("last = %v, want [5 5 5 5]", got[len(got)-1])
	}
	assertUnique(t, got)
}

func TestGenerate_NoDuplicatesThreeOfThree(t *testing.T) {
	got, err := Generate(3, 3, None())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := []Sequence{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerate_NoDuplicatesFallingFactorial(t *testing.T) {
	got, err := Generate(4, 6, None())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 360 {
		t.Fatalf("len = %d, want 360", len(got))
	}
	for _, s := range got {
		seen := map[Color]bool{}
		for _, c := range s {
			if seen[c] {
				t.Fatalf("%v repeats color %d", s, c)
			}
			seen[c] = true
		}
	}
	assertUnique(t, got)
}

func TestGenerate_LimitedIsFilteredUnlimited(t *testing.T) {
	all, err := Generate(5, 4, Unlimited())
	if err != nil {
		t.Fatalf("Generate unlimited: %v", err)
	}
	got, err := Generate(5, 4, Limited(2))
	if err != nil {
		t.Fatalf("Generate limited: %v", err)
	}

	var want []Sequence
	for _, s := range all {
		if maxRepeat(s) <= 2 {
			want = append(want, s)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("got[%d] = %v, want %v (order must match the filtered space)", i, got[i], want[i])
		}
	}
}

func TestGenerate_StableAcrossCalls(t *testing.T) {
	a, _ := Generate(3, 5, Limited(2))
	b, _ := Generate(3, 5, Limited(2))
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("element %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerate_ElementsDoNotAlias(t *testing.T) {
	got, _ := Generate(2, 2, Unlimited())
	got[0] = append(got[0], 1)
	if !got[1].Equal(Sequence{0, 1}) {
		t.Errorf("appending to one code changed its neighbour: %v", got[1])
	}
}

func TestGenerate_InvalidPegCount(t *testing.T) {
	_, err := Generate(0, 3, Unlimited())
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestGenerate_SingleColorSinglePeg(t *testing.T) {
	got, err := Generate(1, 1, None())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(Sequence{0}) {
		t.Errorf("got %v, want [[0]]", got)
	}
}

func maxRepeat(s Sequence) int {
	counts := map[Color]int{}
	m := 0
	for _, c := range s {
		counts[c]++
		if counts[c] > m {
			m = counts[c]
		}
	}
	return m
}

func assertUnique(t *testing.T, seqs []Sequence) {
	t.Helper()
	seen := make(map[string]bool, len(seqs))
	for _, s := range seqs {
		k := fmt.Sprint(s)
		if seen[k] {
			t.Fatalf("duplicate code %v", s)
		}
		seen[k] = true
	}
}

func TestConfigAdmits_AgreesWithGenerate(t *testing.T) {
	colors := []string{"a", "b", "c", "d"}
	all, err := Generate(4, len(colors), Unlimited())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, p := range []Policy{None(), Limited(2), Unlimited()} {
		cfg := NewConfig(4, colors, p)
		space, err := GenerateConfig(cfg)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		admitted := 0
		for _, s := range all {
			if cfg.Admits(s) {
				admitted++
			}
		}
		if admitted != len(space) {
			t.Errorf("%s: Admits accepts %d codes, space has %d", p, admitted, len(space))
		}
	}

	cfg := NewConfig(4, colors, Unlimited())
	for _, s := range []Sequence{{0, 1, 2}, {0, 1, 2, 4}, {0, 1, 2, 3, 0}} {
		if cfg.Admits(s) {
			t.Errorf("Admits(%v) = true", s)
		}
	}
}
