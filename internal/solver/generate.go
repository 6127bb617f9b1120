package solver

import "fmt"

// Generate enumerates every code of numPegs pegs over numColors colors that
// the policy admits. Each code appears exactly once and the order is
// lexicographic in palette index (the first peg varies slowest), so the
// first element is stable across runs.
//
// The output grows exponentially; callers bound it with CheckSize first.
func Generate(numPegs, numColors int, p Policy) ([]Sequence, error) {
	switch {
	case numPegs < 1:
		return nil, fmt.Errorf("%w: need at least one peg", ErrInvalidConfiguration)
	case numPegs > MaxPegs:
		return nil, fmt.Errorf("%w: at most %d pegs are supported", ErrInvalidConfiguration, MaxPegs)
	case numColors < 1 || numColors > MaxColors:
		return nil, fmt.Errorf("%w: palette size %d out of range", ErrInvalidConfiguration, numColors)
	}

	limit := p.maxPerColor(numPegs)
	counts := make([]int, numColors)
	code := make(Sequence, numPegs)
	next := make([]int, numPegs)
	placed := make([]bool, numPegs)
	var flat []Color

	// Iterative depth-first walk; next[pos] is the first palette index not
	// yet tried at pos.
	pos := 0
	for pos >= 0 {
		if placed[pos] {
			counts[code[pos]]--
			placed[pos] = false
		}
		c := next[pos]
		for c < numColors && counts[c] >= limit {
			c++
		}
		if c == numColors {
			next[pos] = 0
			pos--
			continue
		}
		code[pos] = Color(c)
		counts[c]++
		placed[pos] = true
		next[pos] = c + 1
		if pos == numPegs-1 {
			flat = append(flat, code...)
			continue
		}
		pos++
	}

	out := make([]Sequence, len(flat)/numPegs)
	for i := range out {
		lo, hi := i*numPegs, (i+1)*numPegs
		out[i] = Sequence(flat[lo:hi:hi])
	}
	return out, nil
}

// GenerateConfig is Generate for a validated configuration.
func GenerateConfig(c Config) ([]Sequence, error) {
	return Generate(c.NumPegs, c.NumColors(), c.Policy)
}
