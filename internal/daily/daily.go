// apps/go-server/internal/daily/daily.go
//
// Deterministic daily puzzle.
// Every player gets the same secret for a UTC date: HMAC(salt, YYYY-MM-DD)
// picks an index into the classic space (4 pegs, 6 colors, repeats allowed)
// in generation order.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"sync"
	"time"

	"github.com/robalobadob/mastermind/apps/go-server/internal/palette"
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

// Pegs is the code length of the daily puzzle.
const Pegs = 4

var (
	spaceOnce sync.Once
	space     []solver.Sequence
)

// Config returns the daily puzzle configuration.
func Config() solver.Config {
	return solver.NewConfig(Pegs, palette.Classic(), solver.Unlimited())
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SecretIndex returns a deterministic index for a date using
// HMAC(salt, YYYY-MM-DD) % size.
func SecretIndex(date time.Time, salt string, size int) int {
	if size <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(size))
}

// Secret returns the day's secret and its index in the daily space.
func Secret(date time.Time, salt string) (solver.Sequence, int) {
	spaceOnce.Do(func() {
		// The classic space is small and always valid.
		space, _ = solver.GenerateConfig(Config())
	})
	idx := SecretIndex(date, salt, len(space))
	return space[idx].Clone(), idx
}
