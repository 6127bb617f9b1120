package solver

// Consistent reports whether secret would have produced every recorded
// feedback.
func Consistent(secret Sequence, log []Evidence) bool {
	for _, e := range log {
		if Compare(secret, e.Guess) != e.Score() {
			return false
		}
	}
	return true
}

// Filter returns the candidates consistent with every entry of log, in their
// original order. An empty result means the evidence contradicts itself.
// The input slice is not modified.
func Filter(candidates []Sequence, log []Evidence) []Sequence {
	out := make([]Sequence, 0, len(candidates))
	for _, c := range candidates {
		if Consistent(c, log) {
			out = append(out, c)
		}
	}
	return out
}
