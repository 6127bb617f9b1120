// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (creates or reuses session)
//   - POST /daily/guess       → submit a guess, answered with exact/color-only counts
//   - GET  /daily/leaderboard → top 20 results for today (or a given date)
//
// The server holds the secret and the player breaks it. Each user can play
// once per day (enforced by DB + in-memory session). On a win the result is
// stored together with the number of rounds the assistant needs for the same
// secret.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/apps/go-server/internal/daily"
	"github.com/robalobadob/mastermind/apps/go-server/internal/game"
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions and their fields
}

// dailySession holds transient in-memory state for an in-progress daily puzzle.
type dailySession struct {
	GameID      string
	UserID      string
	Date        string
	SecretIndex int
	Secret      solver.Sequence
	Start       time.Time
	Guesses     int
	Finished    bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userID returns the signed-in user ID, or the anonymous cookie value.
func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	GameID  string   `json:"gameId"`
	Date    string   `json:"date"`
	Played  bool     `json:"played"`
	NumPegs int      `json:"numPegs"`
	Colors  []string `json:"colors"`
	Policy  string   `json:"policy"`
}

// handleNew creates or reuses a daily session for the current date.
// A user with a stored result for today gets Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	now := time.Now().UTC()
	date := daily.DateKey(now)
	d.pruneBefore(date)
	cfg := daily.Config()
	res := newRes{Date: date, NumPegs: cfg.NumPegs, Colors: cfg.Colors, Policy: cfg.Policy.String()}

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		res.Played = true
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok {
		secret, idx := daily.Secret(now, d.salt)
		sess = &dailySession{
			GameID:      uuid.NewString(),
			UserID:      uid,
			Date:        date,
			SecretIndex: idx,
			Secret:      secret,
			Start:       time.Now(),
		}
		d.sessions[key] = sess
	}
	res.GameID = sess.GameID
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(res)
}

// pruneBefore drops sessions of any date other than today.
func (d *dailyServer) pruneBefore(today string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, sess := range d.sessions {
		if sess.Date != today {
			delete(d.sessions, key)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessReq struct {
	GameID string   `json:"gameId"`
	Guess  []string `json:"guess"`
}

type dailyGuessRes struct {
	Exact        int    `json:"exact"`
	ColorOnly    int    `json:"colorOnly"`
	State        string `json:"state"` // in_progress | won | locked
	Guesses      int    `json:"guesses"`
	SolverRounds int    `json:"solverRounds,omitempty"`
}

// handleGuess scores a guess against today's secret; a win is persisted.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		badJSON(w)
		return
	}
	cfg := daily.Config()
	guess, err := cfg.Parse(p.Guess)
	if err != nil || p.GameID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_guess", Message: errMessage(err)})
		return
	}

	date := daily.DateKey(time.Now())
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.GameID != p.GameID {
		d.mu.Unlock()
		writeJSON(w, http.StatusConflict, errorBody{Error: "no_session"})
		return
	}
	if sess.Finished {
		res := dailyGuessRes{State: "locked", Guesses: sess.Guesses}
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(res)
		return
	}
	sc := solver.Compare(sess.Secret, guess)
	sess.Guesses++
	won := sc.Exact == cfg.NumPegs
	if won {
		sess.Finished = true
	}
	res := dailyGuessRes{Exact: sc.Exact, ColorOnly: sc.ColorOnly, State: "in_progress", Guesses: sess.Guesses}
	snapshot := *sess
	d.mu.Unlock()

	if won {
		res.State = "won"
		res.SolverRounds = d.solverRounds(cfg, snapshot.Secret)
		err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:       uid,
			Date:         date,
			SecretIndex:  snapshot.SecretIndex,
			Guesses:      snapshot.Guesses,
			ElapsedMs:    int(time.Since(snapshot.Start).Milliseconds()),
			SolverRounds: res.SolverRounds,
		})
		if err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	_ = json.NewEncoder(w).Encode(res)
}

// solverRounds is how many guesses the assistant needs for secret.
func (d *dailyServer) solverRounds(cfg solver.Config, secret solver.Sequence) int {
	t, err := game.Solve(cfg, secret, d.srv.opts, d.srv.cfg.SpaceCeiling, 0)
	if err != nil {
		log.Warn().Err(err).Msg("daily solver run")
		return 0
	}
	return len(t.Rounds)
}

func errMessage(err error) string {
	if err == nil {
		return "gameId is required"
	}
	return err.Error()
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "db_error"})
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
