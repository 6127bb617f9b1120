// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the code-breaking assistant.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/palettes", POST /check, POST /score.
//   - Session endpoints (optional auth): mounted under /session.
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /runs/mine.
//   - Mapping domain errors to JSON error bodies.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Sessions live in the store; runs and stats are persisted best effort.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/apps/go-server/internal/config"
	"github.com/robalobadob/mastermind/apps/go-server/internal/game"
	"github.com/robalobadob/mastermind/apps/go-server/internal/palette"
	"github.com/robalobadob/mastermind/apps/go-server/internal/solver"
	"github.com/robalobadob/mastermind/apps/go-server/internal/store"
)

// Server bundles router, session store, DB handle and settings.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	cfg   config.Config
	opts  solver.Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, cfg: cfg, opts: cfg.SolverOptions()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(30 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"mastermind-go","endpoints":["/health","/palettes","POST /check","POST /score","/session/*","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.store.Len()})
	})

	// --- utilities ---
	s.r.Get("/palettes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(palette.All())
	})
	s.r.Post("/check", s.handleCheck)
	s.r.Post("/score", s.handleScore)

	// Sessions and daily puzzle: OPTIONAL AUTH (guests can play)
	s.mountSessions(s.r.With(s.withOptionalAuth()))
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the single configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Size    string `json:"size,omitempty"`
	Ceiling int64  `json:"ceiling,omitempty"`
}

// writeError maps domain errors to status codes:
//
//	400 invalid_configuration, invalid_feedback
//	422 configuration_too_large
//	409 wrong_state
//	404 not_found
func writeError(w http.ResponseWriter, err error) {
	var tooLarge *solver.TooLargeError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: "configuration_too_large", Message: err.Error(),
			Size: tooLarge.Size.String(), Ceiling: tooLarge.Ceiling,
		})
	case errors.Is(err, solver.ErrInvalidConfiguration), errors.Is(err, palette.ErrUnknown):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_configuration", Message: err.Error()})
	case errors.Is(err, game.ErrInvalidFeedback):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_feedback", Message: err.Error()})
	case errors.Is(err, game.ErrWrongState):
		writeJSON(w, http.StatusConflict, errorBody{Error: "wrong_state", Message: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal"})
	}
}

func badJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_json"})
}

// ------------------------------ utilities ----------------------------------

// configReq describes a game. Colors come from a named palette, a free-text
// list ("Red, Green blue") or an explicit label array, in that order.
type configReq struct {
	NumPegs   int      `json:"numPegs"`
	Palette   string   `json:"palette,omitempty"`
	ColorText string   `json:"colorText,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Policy    string   `json:"policy,omitempty"` // none | limited | unlimited
	MaxDups   int      `json:"maxDups,omitempty"`
}

func (c configReq) build() (solver.Config, error) {
	colors, err := palette.Resolve(c.Palette, c.ColorText, c.Colors)
	if err != nil {
		return solver.Config{}, err
	}
	pol, err := solver.ParsePolicy(c.Policy, c.MaxDups)
	if err != nil {
		return solver.Config{}, err
	}
	return solver.NewConfig(c.NumPegs, colors, pol), nil
}

type checkRes struct {
	OK      bool   `json:"ok"`
	Size    string `json:"size"`
	Ceiling int64  `json:"ceiling"`
	Message string `json:"message,omitempty"`
}

// handleCheck runs the combination-count guard without starting a session.
// An oversized configuration is a normal answer here (ok=false).
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
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
	size, err := solver.CheckSize(cfg, s.cfg.SpaceCeiling)
	switch {
	case errors.Is(err, solver.ErrConfigurationTooLarge):
		writeJSON(w, http.StatusOK, checkRes{Size: size.String(), Ceiling: s.cfg.SpaceCeiling, Message: err.Error()})
	case err != nil:
		writeError(w, err)
	default:
		writeJSON(w, http.StatusOK, checkRes{OK: true, Size: size.String(), Ceiling: s.cfg.SpaceCeiling})
	}
}

type scoreReq struct {
	Secret []string `json:"secret"`
	Guess  []string `json:"guess"`
}

// handleScore scores a guess against a secret given as labels.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	sc, err := solver.CompareLabels(req.Secret, req.Guess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}
