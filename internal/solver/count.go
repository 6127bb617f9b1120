package solver

import "math/big"

// DefaultCeiling is the largest candidate space a game may start with.
const DefaultCeiling int64 = 500_000

// SpaceSize returns the number of codes Generate would produce, without
// generating them.
//
//	unlimited:  colors^pegs
//	none:       colors! / (colors-pegs)!
//	limited(k): exact count of codes where no color repeats more than k
//	            times, built one color at a time:
//	            ways(m) += ways(m-j) * C(m, j) for j = 0..k
func SpaceSize(numPegs, numColors int, p Policy) *big.Int {
	if numPegs < 1 || numColors < 1 {
		return big.NewInt(0)
	}
	switch p.Kind {
	case PolicyNone:
		if numColors < numPegs {
			return big.NewInt(0)
		}
		out := big.NewInt(1)
		for i := 0; i < numPegs; i++ {
			out.Mul(out, big.NewInt(int64(numColors-i)))
		}
		return out
	case PolicyLimited:
		return limitedSize(numPegs, numColors, p.maxPerColor(numPegs))
	}
	return new(big.Int).Exp(big.NewInt(int64(numColors)), big.NewInt(int64(numPegs)), nil)
}

func limitedSize(numPegs, numColors, k int) *big.Int {
	if k < 1 {
		return big.NewInt(0)
	}
	ways := make([]*big.Int, numPegs+1)
	for m := range ways {
		ways[m] = big.NewInt(0)
	}
	ways[0].SetInt64(1)

	var term, binom big.Int
	for c := 0; c < numColors; c++ {
		next := make([]*big.Int, numPegs+1)
		for m := 0; m <= numPegs; m++ {
			sum := big.NewInt(0)
			for j := 0; j <= k && j <= m; j++ {
				binom.Binomial(int64(m), int64(j))
				term.Mul(ways[m-j], &binom)
				sum.Add(sum, &term)
			}
			next[m] = sum
		}
		ways = next
	}
	return ways[numPegs]
}

// CheckSize validates c and rejects it with a *TooLargeError when its
// candidate space exceeds ceiling. It returns the computed size either way.
func CheckSize(c Config, ceiling int64) (*big.Int, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	size := SpaceSize(c.NumPegs, c.NumColors(), c.Policy)
	if size.Cmp(big.NewInt(ceiling)) > 0 {
		return size, &TooLargeError{Size: size, Ceiling: ceiling}
	}
	return size, nil
}
