package solver

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvalidConfiguration covers peg counts, palettes and policies that
	// cannot describe a game.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrConfigurationTooLarge is returned when the candidate space would
	// exceed the configured ceiling. The concrete error is *TooLargeError.
	ErrConfigurationTooLarge = errors.New("configuration too large")
)

// TooLargeError reports the computed candidate-space size and the ceiling
// it exceeded.
type TooLargeError struct {
	Size    *big.Int
	Ceiling int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("configuration too large: %s possible codes exceeds the limit of %d", e.Size, e.Ceiling)
}

func (e *TooLargeError) Unwrap() error { return ErrConfigurationTooLarge }
