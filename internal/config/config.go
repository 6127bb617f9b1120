// apps/go-server/internal/config/config.go
//
// Environment configuration for every command.
// main loads .env (godotenv) first; Load then reads the process environment.
// Unset or empty variables take their defaults; malformed numbers are errors.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

// ErrInvalid marks a malformed environment value.
var ErrInvalid = errors.New("invalid configuration value")

// Solver modes.
const (
	ModeStrict  = "strict"
	ModeBounded = "bounded"
)

// Config holds the runtime settings.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // "json" or "console"

	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	AnonCookieName string
	ClientOrigin   string
	Production     bool
	DailySalt      string
	PalettesFile   string

	SpaceCeiling int64
	SolverMode   string

	SessionTTL  time.Duration // idle sessions older than this are evicted
	MaxSessions int           // live sessions held at most; 0 means no cap

	// Overrides on top of the mode preset; nil means "use the preset".
	AcceptWorst         *int
	AcceptDivisor       *int
	MaxCandidateGuesses *int
	MaxUniverseGuesses  *int
}

// Load reads the environment.
func Load() (Config, error) {
	c := Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "json")),
		DBPath:         getEnv("DB_PATH", "./data/mastermind.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		CookieName:     getEnv("COOKIE_NAME", "mastermind_token"),
		AnonCookieName: getEnv("ANON_COOKIE_NAME", "mastermind_anon"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		PalettesFile:   os.Getenv("PALETTES_FILE"),
		SolverMode:     strings.ToLower(getEnv("SOLVER_MODE", ModeBounded)),
	}

	var err error
	if c.JWTExpiresDays, err = intEnv("JWT_EXPIRES_DAYS", 14); err != nil {
		return c, err
	}
	ceiling, err := intEnv("SPACE_CEILING", int(solver.DefaultCeiling))
	if err != nil {
		return c, err
	}
	if ceiling < 1 {
		return c, fmt.Errorf("%w: SPACE_CEILING must be positive, got %d", ErrInvalid, ceiling)
	}
	c.SpaceCeiling = int64(ceiling)

	if c.SessionTTL, err = durationEnv("SESSION_TTL", 2*time.Hour); err != nil {
		return c, err
	}
	if c.MaxSessions, err = intEnv("MAX_SESSIONS", 10000); err != nil {
		return c, err
	}

	switch c.SolverMode {
	case ModeStrict, ModeBounded:
	default:
		return c, fmt.Errorf("%w: SOLVER_MODE must be %s or %s, got %q", ErrInvalid, ModeStrict, ModeBounded, c.SolverMode)
	}
	for _, o := range []struct {
		key string
		dst **int
	}{
		{"SOLVER_ACCEPT_WORST", &c.AcceptWorst},
		{"SOLVER_ACCEPT_DIVISOR", &c.AcceptDivisor},
		{"SOLVER_MAX_CANDIDATE_GUESSES", &c.MaxCandidateGuesses},
		{"SOLVER_MAX_UNIVERSE_GUESSES", &c.MaxUniverseGuesses},
	} {
		if *o.dst, err = optionalIntEnv(o.key); err != nil {
			return c, err
		}
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return c, fmt.Errorf("%w: LOG_FORMAT must be json or console, got %q", ErrInvalid, c.LogFormat)
	}
	return c, nil
}

// SolverOptions returns the preset for SolverMode with any overrides applied.
func (c Config) SolverOptions() solver.Options {
	opts := solver.BoundedOptions()
	if c.SolverMode == ModeStrict {
		opts = solver.StrictOptions()
	}
	if c.AcceptWorst != nil {
		opts.AcceptWorst = *c.AcceptWorst
	}
	if c.AcceptDivisor != nil {
		opts.AcceptDivisor = *c.AcceptDivisor
	}
	if c.MaxCandidateGuesses != nil {
		opts.MaxCandidateGuesses = *c.MaxCandidateGuesses
	}
	if c.MaxUniverseGuesses != nil {
		opts.MaxUniverseGuesses = *c.MaxUniverseGuesses
	}
	return opts
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func intEnv(k string, def int) (int, error) {
	v, err := optionalIntEnv(k)
	if err != nil || v == nil {
		return def, err
	}
	return *v, nil
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(k))
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", ErrInvalid, k, s)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalid, k, d)
	}
	return d, nil
}

func optionalIntEnv(k string) (*int, error) {
	s := strings.TrimSpace(os.Getenv(k))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, k, s)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalid, k, n)
	}
	return &n, nil
}
