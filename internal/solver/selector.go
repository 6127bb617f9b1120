// apps/go-server/internal/solver/selector.go
//
// Guess selection in the style of Knuth's minimax algorithm.
//
// For every evaluated guess the remaining candidates are split into buckets
// by the feedback they would produce; the guess with the smallest largest
// bucket wins. Candidates are searched before the wider guess universe since
// a candidate can win outright, and ties go to the first guess evaluated.
//
// Options trade optimality for latency: a guess that is "good enough" ends
// the search early, and the number of guesses evaluated per round can be
// capped (the first N in generation order).

package solver

// Options tunes the search. The zero value evaluates everything and only
// stops early on a perfect split.
type Options struct {
	// AcceptWorst ends the search at the first guess whose largest bucket
	// holds at most this many candidates. Values below 1 mean 1.
	AcceptWorst int `json:"acceptWorst"`
	// AcceptDivisor, when positive, also ends the search at a guess whose
	// largest bucket is at most len(candidates)/AcceptDivisor.
	AcceptDivisor int `json:"acceptDivisor"`
	// MaxCandidateGuesses caps how many candidates are evaluated as guesses.
	// Zero means no cap.
	MaxCandidateGuesses int `json:"maxCandidateGuesses"`
	// MaxUniverseGuesses caps how many universe codes are evaluated.
	// Zero means no cap.
	MaxUniverseGuesses int `json:"maxUniverseGuesses"`
}

// StrictOptions is plain minimax with the perfect-split early exit only.
func StrictOptions() Options { return Options{AcceptWorst: 1} }

// BoundedOptions accepts a worst bucket of two, or a quarter of the
// candidates, and evaluates at most 1500 guesses from each pool.
func BoundedOptions() Options {
	return Options{
		AcceptWorst:         2,
		AcceptDivisor:       4,
		MaxCandidateGuesses: 1500,
		MaxUniverseGuesses:  1500,
	}
}

// accept returns the worst-bucket size at or below which a guess ends the search.
func (o Options) accept(candidates int) int {
	a := o.AcceptWorst
	if a < 1 {
		a = 1
	}
	if o.AcceptDivisor > 0 {
		if q := candidates / o.AcceptDivisor; q > a {
			a = q
		}
	}
	return a
}

func capPool(pool []Sequence, limit int) []Sequence {
	if limit > 0 && len(pool) > limit {
		return pool[:limit]
	}
	return pool
}

// Selector picks guesses for one configuration. It keeps a scratch bucket
// table and is not safe for concurrent use.
type Selector struct {
	cfg     Config
	opts    Options
	buckets []int
}

// NewSelector returns a Selector for cfg.
func NewSelector(cfg Config, opts Options) *Selector {
	n := cfg.NumPegs
	return &Selector{cfg: cfg, opts: opts, buckets: make([]int, (n+1)*(n+1))}
}

// Options returns the search options in use.
func (s *Selector) Options() Options { return s.opts }

// Opening returns the fixed first guess c0, c1, c0, c1, ... when the policy
// allows repeats, the code has at least four pegs and the pattern itself
// satisfies the policy.
func Opening(cfg Config) (Sequence, bool) {
	n := cfg.NumPegs
	if !cfg.Policy.AllowsRepeats() || n < 4 || cfg.NumColors() < 2 {
		return nil, false
	}
	if (n+1)/2 > cfg.Policy.maxPerColor(n) {
		return nil, false
	}
	out := make(Sequence, n)
	for i := range out {
		out[i] = Color(i % 2)
	}
	return out, true
}

// Choose returns the next guess, or nil when there are no candidates.
//
//  1. A single candidate is returned as is.
//  2. On the first round the fixed opening is used when it applies,
//     otherwise the first candidate.
//  3. Candidates are evaluated as guesses; an acceptable one returns at once.
//  4. With more than two candidates left, the universe is searched too and
//     only a strictly smaller worst bucket replaces the best so far.
func (s *Selector) Choose(candidates, universe []Sequence, firstRound bool) Sequence {
	switch {
	case len(candidates) == 0:
		return nil
	case len(candidates) == 1:
		return candidates[0]
	case firstRound:
		if g, ok := Opening(s.cfg); ok {
			return g
		}
		return candidates[0]
	}

	accept := s.opts.accept(len(candidates))
	var best Sequence
	bestWorst := len(candidates) + 1

	for _, g := range capPool(candidates, s.opts.MaxCandidateGuesses) {
		worst, ok := s.worstBucket(g, candidates, bestWorst)
		if !ok {
			continue
		}
		best, bestWorst = g, worst
		if worst <= accept {
			return best
		}
	}

	if len(candidates) > 2 {
		for _, g := range capPool(universe, s.opts.MaxUniverseGuesses) {
			worst, ok := s.worstBucket(g, candidates, bestWorst)
			if !ok {
				continue
			}
			best, bestWorst = g, worst
			if worst <= accept {
				break
			}
		}
	}
	return best
}

// WorstBucket returns the size of the largest group of candidates that
// would share the same feedback for guess.
func (s *Selector) WorstBucket(guess Sequence, candidates []Sequence) int {
	w, _ := s.worstBucket(guess, candidates, len(candidates)+1)
	return w
}

// worstBucket computes the largest bucket for guess. It gives up and returns
// false as soon as some bucket reaches bound, since such a guess cannot beat
// the current best.
func (s *Selector) worstBucket(guess Sequence, candidates []Sequence, bound int) (int, bool) {
	for i := range s.buckets {
		s.buckets[i] = 0
	}
	n := s.cfg.NumPegs
	worst := 0
	for _, c := range candidates {
		idx := outcomeIndex(Compare(c, guess), n)
		s.buckets[idx]++
		if b := s.buckets[idx]; b > worst {
			worst = b
			if worst >= bound {
				return worst, false
			}
		}
	}
	return worst, true
}

// Partition groups candidates by the feedback they would give for guess.
func Partition(guess Sequence, candidates []Sequence) map[Score][]Sequence {
	out := make(map[Score][]Sequence)
	for _, c := range candidates {
		sc := Compare(c, guess)
		out[sc] = append(out[sc], c)
	}
	return out
}
