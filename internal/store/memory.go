// apps/go-server/internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live assistant sessions keyed by ID.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - The map is guarded by an RWMutex; each entry has its own mutex so two
//     requests for the same session never interleave inside Update.
//   - State is lost when the process restarts.
//   - Missing IDs return ErrNotFound.
//   - Entries idle longer than the TTL are dropped by Sweep; with a session
//     cap the least recently used entry makes room for a new one. Entries
//     busy inside Update are never evicted.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/apps/go-server/internal/game"
)

// ErrNotFound is returned for an unknown session ID.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID. Callers that mutate the session must
	// use Update instead.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Update runs fn with exclusive access to the session. The error from fn
	// is returned as is.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Delete drops a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are held.
	Len() int

	// Sweep evicts sessions idle for longer than the TTL and reports how
	// many were dropped.
	Sweep(ctx context.Context) int
}

type entry struct {
	mu      sync.Mutex
	sess    *game.Session
	touched time.Time // last Save, Get or Update
	evicted bool      // set under mu once removed from the map
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex      // guards sessions map
	sessions map[string]*entry // keyed by Session.ID

	ttl         time.Duration // zero keeps sessions forever
	maxSessions int           // zero means no cap
	now         func() time.Time
}

// Option configures the memory store.
type Option func(*memory)

// WithTTL drops sessions not touched for d. Zero disables expiry.
func WithTTL(d time.Duration) Option { return func(m *memory) { m.ttl = d } }

// WithMaxSessions caps the number of sessions held. Zero disables the cap.
func WithMaxSessions(n int) Option { return func(m *memory) { m.maxSessions = n } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(m *memory) { m.now = now } }

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore(opts ...Option) Store {
	m := &memory{sessions: make(map[string]*entry), now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if e, ok := m.sessions[s.ID]; ok {
		e.mu.Lock()
		e.sess = s
		e.touched = now
		e.mu.Unlock()
		return nil
	}
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.evictOldestLocked()
	}
	m.sessions[s.ID] = &entry{sess: s, touched: now}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evicted {
		return nil, ErrNotFound
	}
	e.touched = m.now()
	return e.sess, nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evicted {
		return ErrNotFound
	}
	defer func() { e.touched = m.now() }()
	return fn(e.sess)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) Sweep(ctx context.Context) int {
	if m.ttl <= 0 || ctx.Err() != nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.ttl)
	n := 0
	for id, e := range m.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.touched.Before(cutoff) {
			e.evicted = true
			delete(m.sessions, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// evictOldestLocked drops the least recently touched idle entry.
// m.mu must be held for writing.
func (m *memory) evictOldestLocked() {
	var (
		oldestID string
		oldest   *entry
	)
	for id, e := range m.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if oldest == nil || e.touched.Before(oldest.touched) {
			if oldest != nil {
				oldest.mu.Unlock()
			}
			oldestID, oldest = id, e
			continue
		}
		e.mu.Unlock()
	}
	if oldest == nil {
		return
	}
	oldest.evicted = true
	delete(m.sessions, oldestID)
	oldest.mu.Unlock()
}

// RunSweeper calls st.Sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, st Store, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(ctx); n > 0 {
				log.Debug().Int("evicted", n).Int("sessions", st.Len()).Msg("expired sessions swept")
			}
		}
	}
}

func (m *memory) lookup(ctx context.Context, id string) (*entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}
