// apps/go-server/internal/httpserver/routes_session.go
//
// HTTP routes for assistant sessions.
//   - POST /session/new       → validate a configuration and start a session
//   - POST /session/guess     → next proposed guess (repeated until feedback)
//   - POST /session/feedback  → record exact / color-only counts for a guess
//   - POST /session/restart   → back to configuring, optionally start again
//   - GET  /session/{id}      → snapshot
//
// Every mutation runs inside store.Update so one session is never touched by
// two requests at once. Runs and stats are written after the update, best
// effort.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/apps/go-server/internal/game"
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
)

// mountSessions registers all /session routes.
func (s *Server) mountSessions(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Post("/new", s.handleNewSession)
		r.Post("/guess", s.handleNextGuess)
		r.Post("/feedback", s.handleFeedback)
		r.Post("/restart", s.handleRestart)
		r.Get("/{id}", s.handleGetSession)
	})
}

// sessionRes is a snapshot plus, for /session/guess, the proposed guess.
type sessionRes struct {
	game.Snapshot
	Guess []string `json:"guess,omitempty"`
}

// handleNewSession creates a session, starts it with the requested
// configuration and records the run. Nothing is stored on error.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req configReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	cfg, err := req.build()
	if err != nil {
		writeError(w, err)
		return
	}
	sess := game.New(s.opts, s.cfg.SpaceCeiling)
	if err := sess.Start(cfg); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	snap := sess.Snapshot()
	s.recordRunStart(w, r, snap)
	log.Info().Str("session", snap.ID).Int("candidates", snap.Remaining).Str("policy", snap.Policy).Msg("session started")

	writeJSON(w, http.StatusOK, sessionRes{Snapshot: snap})
}

type sessionIDReq struct {
	SessionID string `json:"sessionId"`
}

// handleNextGuess proposes a guess. Running out of candidates is reported as
// a contradiction snapshot, not as an error.
func (s *Server) handleNextGuess(w http.ResponseWriter, r *http.Request) {
	var req sessionIDReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	var (
		res    sessionRes
		before game.State
	)
	err := s.store.Update(r.Context(), req.SessionID, func(sess *game.Session) error {
		before = sess.State()
		guess, err := sess.NextGuess()
		if err != nil && !errors.Is(err, game.ErrContradiction) {
			return err
		}
		res.Snapshot = sess.Snapshot()
		if guess != nil {
			res.Guess = sess.Config().Labels(guess)
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if before != res.State {
		s.recordRunEnd(r, res.Snapshot)
	}
	writeJSON(w, http.StatusOK, res)
}

// feedbackReq carries the counts for guess. An empty guess means the
// pending proposal.
type feedbackReq struct {
	SessionID string   `json:"sessionId"`
	Guess     []string `json:"guess,omitempty"`
	Exact     int      `json:"exact"`
	ColorOnly int      `json:"colorOnly"`
}

// handleFeedback records one round of feedback.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	var snap game.Snapshot
	err := s.store.Update(r.Context(), req.SessionID, func(sess *game.Session) error {
		if sess.State() != game.StateInProgress {
			return fmt.Errorf("%w: feedback requires %s, session is %s", game.ErrWrongState, game.StateInProgress, sess.State())
		}
		guess, err := resolveGuess(sess, req.Guess)
		if err != nil {
			return err
		}
		if _, err := sess.RecordFeedback(guess, req.Exact, req.ColorOnly); err != nil {
			return err
		}
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	log.Debug().Str("session", snap.ID).Int("rounds", snap.Rounds).Int("candidates", snap.Remaining).
		Str("state", string(snap.State)).Msg("feedback recorded")
	s.recordRunEnd(r, snap)
	writeJSON(w, http.StatusOK, sessionRes{Snapshot: snap})
}

// resolveGuess maps labels to a sequence, falling back to the pending guess.
func resolveGuess(sess *game.Session, labels []string) (solver.Sequence, error) {
	if len(labels) == 0 {
		if p := sess.Pending(); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("%w: no guess given and none pending", game.ErrInvalidFeedback)
	}
	guess, err := sess.Config().Parse(labels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidFeedback, err)
	}
	return guess, nil
}

type restartReq struct {
	SessionID string     `json:"sessionId"`
	Config    *configReq `json:"config,omitempty"`
}

// handleRestart abandons the current run. With a config the session starts
// again right away; if that config is rejected the session stays configuring.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req restartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	var (
		prev, snap game.Snapshot
		startErr   error
	)
	err := s.store.Update(r.Context(), req.SessionID, func(sess *game.Session) error {
		prev = sess.Snapshot()
		sess.Restart()
		if req.Config != nil {
			cfg, err := req.Config.build()
			if err == nil {
				err = sess.Start(cfg)
			}
			startErr = err
		}
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if prev.State == game.StateInProgress {
		prev.State = "abandoned"
		s.recordRunEnd(r, prev)
	}
	if startErr != nil {
		writeError(w, startErr)
		return
	}
	if snap.State == game.StateInProgress {
		s.recordRunStart(w, r, snap)
	}
	writeJSON(w, http.StatusOK, sessionRes{Snapshot: snap})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	var snap game.Snapshot
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(sess *game.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionRes{Snapshot: snap})
}

// ------------------------------ persistence --------------------------------

// recordRunStart inserts the runs row for a freshly started run, owned by
// the signed-in user or the anonymous cookie.
func (s *Server) recordRunStart(w http.ResponseWriter, r *http.Request, snap game.Snapshot) {
	var userID, anonID any
	if me := currentUser(r); me != nil {
		userID = me.ID
	} else {
		anonID = s.ensureAnonID(w, r)
	}
	_, err := s.db.ExecContext(r.Context(), `
        INSERT INTO runs (session_id, run, user_id, anonymous_id, num_pegs, num_colors, policy, status, rounds, started_at)
        VALUES (?,?,?,?,?,?,?,?,0,?)`,
		snap.ID, snap.Run, userID, anonID, snap.NumPegs, len(snap.Colors), snap.Policy,
		string(snap.State), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		log.Warn().Err(err).Str("session", snap.ID).Int("run", snap.Run).Msg("insert run row")
	}
}

// recordRunEnd updates the run's status and rounds. A run reaching solved or
// contradiction also bumps the owner's stats, once, inside one transaction.
func (s *Server) recordRunEnd(r *http.Request, snap game.Snapshot) {
	ctx := context.WithoutCancel(r.Context())
	finished := snap.State != game.StateInProgress

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin run update")
		return
	}
	defer func() { _ = tx.Rollback() }()

	var finishedAt any
	if finished {
		finishedAt = time.Now().UTC().Format(time.RFC3339)
	}
	res, err := tx.ExecContext(ctx, `
        UPDATE runs SET status=?, rounds=?, finished_at=COALESCE(?, finished_at)
        WHERE session_id=? AND run=? AND status='in_progress'`,
		string(snap.State), snap.Rounds, finishedAt, snap.ID, snap.Run)
	if err != nil {
		log.Warn().Err(err).Str("session", snap.ID).Msg("update run row")
		return
	}
	if n, _ := res.RowsAffected(); n == 1 && snap.State.Terminal() {
		var userID sql.NullString
		if err := tx.QueryRowContext(ctx, `SELECT user_id FROM runs WHERE session_id=? AND run=?`,
			snap.ID, snap.Run).Scan(&userID); err == nil && userID.Valid {
			if err := bumpStats(ctx, tx, userID.String, snap.State, snap.Rounds); err != nil {
				log.Warn().Err(err).Str("user", userID.String).Msg("bump stats")
			}
		}
		log.Info().Str("session", snap.ID).Int("run", snap.Run).Int("rounds", snap.Rounds).
			Str("state", string(snap.State)).Msg("run finished")
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit run update")
	}
}
