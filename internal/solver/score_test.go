package solver

import (
	"errors"
	"testing"
)

const (
	red Color = iota
	green
	blue
	yellow
)

func TestCompare_ConcreteScenario(t *testing.T) {
	secret := Sequence{red, red, green, blue}
	guess := Sequence{red, green, red, green}

	got := Compare(secret, guess)
	want := Score{Exact: 1, ColorOnly: 2}
	if got != want {
		t.Errorf("Compare(%v, %v) = %+v, want %+v", secret, guess, got, want)
	}
}

func TestCompare_Table(t *testing.T) {
	tests := []struct {
		name          string
		secret, guess Sequence
		want          Score
	}{
		{"all exact", Sequence{0, 1, 2, 3}, Sequence{0, 1, 2, 3}, Score{4, 0}},
		{"all color only", Sequence{0, 1, 2, 3}, Sequence{3, 2, 1, 0}, Score{0, 4}},
		{"nothing shared", Sequence{0, 0, 0, 0}, Sequence{1, 1, 1, 1}, Score{0, 0}},
		{"repeated guess color counted once", Sequence{0, 1, 2, 3}, Sequence{1, 1, 1, 1}, Score{1, 0}},
		{"repeated secret color", Sequence{0, 0, 1, 1}, Sequence{1, 1, 0, 0}, Score{0, 4}},
		{"partial overlap", Sequence{0, 0, 1, 2}, Sequence{0, 1, 1, 1}, Score{2, 0}},
		{"single peg hit", Sequence{3}, Sequence{3}, Score{1, 0}},
		{"single peg miss", Sequence{3}, Sequence{2}, Score{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.secret, tt.guess); got != tt.want {
				t.Errorf("Compare = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompare_SymmetricReflexiveBounded(t *testing.T) {
	space, err := Generate(4, 4, Unlimited())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, a := range space {
		if got := Compare(a, a); got != (Score{Exact: 4}) {
			t.Fatalf("Compare(%v, itself) = %+v, want {4 0}", a, got)
		}
		// every 7th partner keeps the pair count small
		for j := i % 7; j < len(space); j += 7 {
			b := space[j]
			ab, ba := Compare(a, b), Compare(b, a)
			if ab != ba {
				t.Fatalf("Compare(%v,%v)=%+v but Compare(%v,%v)=%+v", a, b, ab, b, a, ba)
			}
			if ab.Exact+ab.ColorOnly > len(a) {
				t.Fatalf("Compare(%v,%v)=%+v exceeds %d pegs", a, b, ab, len(a))
			}
		}
	}
}

func TestCompareLabels(t *testing.T) {
	got, err := CompareLabels(
		[]string{"Red", "Red", "Green", "Blue"},
		[]string{"Red", "Green", "Red", " Green "},
	)
	if err != nil {
		t.Fatalf("CompareLabels: %v", err)
	}
	if got != (Score{Exact: 1, ColorOnly: 2}) {
		t.Errorf("got %+v, want {1 2}", got)
	}

	if _, err := CompareLabels([]string{"a"}, []string{"a", "b"}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("length mismatch err = %v", err)
	}
	if _, err := CompareLabels(nil, nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("empty err = %v", err)
	}
}
