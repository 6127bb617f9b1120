package solver

import (
	"fmt"
	"strings"
)

// Compare scores guess against secret.
//
// Exact counts positions holding the same color. The remaining positions of
// both codes form two leftover lists; every leftover secret color that is
// still present among the leftover guess colors adds one color-only match and
// consumes that guess peg. Because the leftovers are matched as multisets,
// Compare(a, b) and Compare(b, a) always agree.
//
// Both codes must have the same length.
func Compare(secret, guess Sequence) Score {
	var sc Score
	var leftSecret, leftGuess [MaxPegs]Color
	n := 0
	for i := range secret {
		if secret[i] == guess[i] {
			sc.Exact++
			continue
		}
		leftSecret[n] = secret[i]
		leftGuess[n] = guess[i]
		n++
	}

	remaining := leftGuess[:n]
	for _, c := range leftSecret[:n] {
		for j, g := range remaining {
			if g == c {
				sc.ColorOnly++
				last := len(remaining) - 1
				remaining[j] = remaining[last]
				remaining = remaining[:last]
				break
			}
		}
	}
	return sc
}

// outcomeIndex packs a score into a dense bucket index for codes of n pegs.
func outcomeIndex(sc Score, n int) int { return sc.Exact*(n+1) + sc.ColorOnly }

// CompareLabels scores two codes written as labels. The palette is the set
// of labels seen, so any label is accepted.
func CompareLabels(secret, guess []string) (Score, error) {
	if len(secret) != len(guess) {
		return Score{}, fmt.Errorf("%w: secret has %d pegs, guess has %d", ErrInvalidConfiguration, len(secret), len(guess))
	}
	if len(secret) == 0 || len(secret) > MaxPegs {
		return Score{}, fmt.Errorf("%w: codes must have 1 to %d pegs", ErrInvalidConfiguration, MaxPegs)
	}
	index := make(map[string]Color, 2*len(secret))
	toSeq := func(labels []string) Sequence {
		out := make(Sequence, len(labels))
		for i, l := range labels {
			l = strings.TrimSpace(l)
			c, ok := index[l]
			if !ok {
				c = Color(len(index))
				index[l] = c
			}
			out[i] = c
		}
		return out
	}
	// 2*MaxPegs distinct labels always fit in a Color.
	s := toSeq(secret)
	g := toSeq(guess)
	return Compare(s, g), nil
}
