// apps/go-server/internal/solver/types.go
//
// Core type definitions for the code-breaking engine.
// Defines:
//   - Color / Sequence: a code as palette indexes (candidate secret or guess).
//   - Policy: duplicate rules (none, limited(k), unlimited).
//   - Score / Evidence: feedback for one guess.
//   - Config: peg count, palette labels and policy for one game.

package solver

import (
	"fmt"
	"strings"
)

const (
	// MaxColors bounds the palette so a Color fits in a byte.
	MaxColors = 256
	// MaxPegs bounds the code length.
	MaxPegs = 20
)

// Color is an index into the game's palette.
type Color uint8

// Sequence is an ordered code of NumPegs colors. The same type is used for
// candidate secrets and for guesses.
type Sequence []Color

// Equal reports whether s and o hold the same colors in the same order.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share storage with s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// PolicyKind names a duplicate rule.
type PolicyKind string

const (
	PolicyNone      PolicyKind = "none"
	PolicyLimited   PolicyKind = "limited"
	PolicyUnlimited PolicyKind = "unlimited"
)

// Policy restricts how often a color may appear in one code.
// MaxDups is only meaningful for PolicyLimited.
type Policy struct {
	Kind    PolicyKind `json:"kind"`
	MaxDups int        `json:"maxDups,omitempty"`
}

func None() Policy { return Policy{Kind: PolicyNone} }
func Unlimited() Policy { return Policy{Kind: PolicyUnlimited} }
func Limited(k int) Policy { return Policy{Kind: PolicyLimited, MaxDups: k} }

// ParsePolicy maps a user-facing name to a Policy. "dups"/"allow" are
// accepted as aliases of unlimited and "nodups" of none.
func ParsePolicy(kind string, maxDups int) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "unlimited", "dups", "allow":
		return Unlimited(), nil
	case "none", "nodups", "distinct":
		return None(), nil
	case "limited":
		if maxDups < 1 {
			return Policy{}, fmt.Errorf("%w: limited policy needs maxDups >= 1, got %d", ErrInvalidConfiguration, maxDups)
		}
		return Limited(maxDups), nil
	}
	return Policy{}, fmt.Errorf("%w: unknown duplicate policy %q", ErrInvalidConfiguration, kind)
}

// maxPerColor returns how many times one color may appear in a code of n pegs.
func (p Policy) maxPerColor(n int) int {
	switch p.Kind {
	case PolicyNone:
		return 1
	case PolicyLimited:
		if p.MaxDups < n {
			return p.MaxDups
		}
	}
	return n
}

// AllowsRepeats reports whether a color may appear more than once.
func (p Policy) AllowsRepeats() bool {
	switch p.Kind {
	case PolicyUnlimited:
		return true
	case PolicyLimited:
		return p.MaxDups >= 2
	}
	return false
}

func (p Policy) String() string {
	if p.Kind == PolicyLimited {
		return fmt.Sprintf("limited(%d)", p.MaxDups)
	}
	return string(p.Kind)
}

// Score is the feedback for a guess against a secret.
type Score struct {
	Exact     int `json:"exact"`
	ColorOnly int `json:"colorOnly"`
}

// Evidence is one recorded round. It is appended to a log and never changed.
type Evidence struct {
	Guess     Sequence
	Exact     int
	ColorOnly int
}

// Score returns the feedback part of the evidence.
func (e Evidence) Score() Score { return Score{Exact: e.Exact, ColorOnly: e.ColorOnly} }

// Config describes one game: code length, palette labels and duplicate policy.
type Config struct {
	NumPegs int      `json:"numPegs"`
	Colors  []string `json:"colors"`
	Policy  Policy   `json:"policy"`
}

// NewConfig builds a Config, collapsing repeated and blank labels while
// keeping first-seen order.
func NewConfig(numPegs int, colors []string, policy Policy) Config {
	seen := make(map[string]struct{}, len(colors))
	labels := make([]string, 0, len(colors))
	for _, c := range colors {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		labels = append(labels, c)
	}
	return Config{NumPegs: numPegs, Colors: labels, Policy: policy}
}

// NumColors is the palette size.
func (c Config) NumColors() int { return len(c.Colors) }

// Validate checks the structural rules that do not depend on the size of
// the candidate space.
func (c Config) Validate() error {
	switch {
	case c.NumPegs < 1:
		return fmt.Errorf("%w: need at least one peg", ErrInvalidConfiguration)
	case c.NumPegs > MaxPegs:
		return fmt.Errorf("%w: at most %d pegs are supported", ErrInvalidConfiguration, MaxPegs)
	case len(c.Colors) < 1:
		return fmt.Errorf("%w: need at least one color", ErrInvalidConfiguration)
	case len(c.Colors) > MaxColors:
		return fmt.Errorf("%w: at most %d colors are supported", ErrInvalidConfiguration, MaxColors)
	}
	switch c.Policy.Kind {
	case PolicyNone:
		if len(c.Colors) < c.NumPegs {
			return fmt.Errorf("%w: if duplicates are not allowed, need at least as many colors (%d) as pegs (%d)",
				ErrInvalidConfiguration, len(c.Colors), c.NumPegs)
		}
	case PolicyLimited:
		if c.Policy.MaxDups < 1 {
			return fmt.Errorf("%w: limited policy needs maxDups >= 1", ErrInvalidConfiguration)
		}
		if c.Policy.MaxDups*len(c.Colors) < c.NumPegs {
			return fmt.Errorf("%w: %d colors used at most %d times cannot fill %d pegs",
				ErrInvalidConfiguration, len(c.Colors), c.Policy.MaxDups, c.NumPegs)
		}
	case PolicyUnlimited:
	default:
		return fmt.Errorf("%w: unknown duplicate policy %q", ErrInvalidConfiguration, c.Policy.Kind)
	}
	return nil
}

// Labels renders a sequence with the palette's labels.
func (c Config) Labels(s Sequence) []string {
	out := make([]string, len(s))
	for i, col := range s {
		if int(col) < len(c.Colors) {
			out[i] = c.Colors[col]
		}
	}
	return out
}

// Format renders a sequence as "Red, Green, Red, Green".
func (c Config) Format(s Sequence) string { return strings.Join(c.Labels(s), ", ") }

// Parse maps labels back to a sequence. Labels match case-insensitively.
func (c Config) Parse(labels []string) (Sequence, error) {
	if len(labels) != c.NumPegs {
		return nil, fmt.Errorf("expected %d pegs, got %d", c.NumPegs, len(labels))
	}
	out := make(Sequence, len(labels))
	for i, l := range labels {
		idx := c.indexOf(l)
		if idx < 0 {
			return nil, fmt.Errorf("unknown color %q", l)
		}
		out[i] = Color(idx)
	}
	return out, nil
}

// Contains reports whether every peg of s is a palette index.
func (c Config) Contains(s Sequence) bool {
	for _, col := range s {
		if int(col) >= len(c.Colors) {
			return false
		}
	}
	return true
}

// Admits reports whether s is a code of the configuration: the right length,
// palette colors only, and no color more often than the policy allows.
func (c Config) Admits(s Sequence) bool {
	if len(s) != c.NumPegs || !c.Contains(s) {
		return false
	}
	limit := c.Policy.maxPerColor(c.NumPegs)
	counts := make([]int, len(c.Colors))
	for _, col := range s {
		counts[col]++
		if counts[col] > limit {
			return false
		}
	}
	return true
}

func (c Config) indexOf(label string) int {
	label = strings.TrimSpace(label)
	for i, l := range c.Colors {
		if l == label {
			return i
		}
	}
	for i, l := range c.Colors {
		if strings.EqualFold(l, label) {
			return i
		}
	}
	return -1
}
