// apps/go-server/internal/httpserver/auth.go
//
// Accounts for the assistant server.
// Responsibilities:
//   - /auth/signup, /auth/login, /auth/logout, /auth/me.
//   - /stats/me and /runs/mine for signed-in users.
//   - JWT signing/verification (HS256) from the Authorization header or cookie.
//   - Anonymous cookie so guest runs can be claimed after signup/login.
//   - bcrypt password hashing and user rows.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/mastermind/apps/go-server/internal/game"
)

var errUsernameTaken = errors.New("username taken")

// Request payload for signup/login.
type credentials struct{ Username, Password string }

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func currentUser(r *http.Request) *authUser {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return me
}

// mountAuthRoutes registers authentication + gated routes.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(currentUser(r))
		})
		r.Get("/stats/me", s.handleStats)
		r.Get("/runs/mine", s.handleMyRuns)
	})
}

// handleSignup creates a user, signs a JWT, sets the auth cookie and claims
// anonymous runs.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badJSON(w)
		return
	}
	u, err := s.createUser(r.Context(), body.Username, body.Password)
	if errors.Is(err, errUsernameTaken) {
		writeJSON(w, http.StatusConflict, errorBody{Error: "username_taken"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_signup", Message: err.Error()})
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimAnonRuns(r.Context(), s.ensureAnonID(w, r), u.ID)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates, sets the cookie and claims anonymous runs.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badJSON(w)
		return
	}
	u, err := s.findUserByUsername(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Invalid username or password"})
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimAnonRuns(r.Context(), s.ensureAnonID(w, r), u.ID)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setAuthCookie(w, "", time.Time{})
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

type statsRes struct {
	ID             string  `json:"id"`
	SessionsPlayed int     `json:"sessionsPlayed"`
	Solved         int     `json:"solved"`
	Contradictions int     `json:"contradictions"`
	TotalRounds    int     `json:"totalRounds"`
	MeanRounds     float64 `json:"meanRounds"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	u, err := s.findUserByID(r.Context(), currentUser(r).ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "db_error"})
		return
	}
	res := statsRes{
		ID:             u.ID,
		SessionsPlayed: u.SessionsPlayed,
		Solved:         u.Solved,
		Contradictions: u.Contradictions,
		TotalRounds:    u.TotalRounds,
	}
	if u.SessionsPlayed > 0 {
		res.MeanRounds = float64(u.TotalRounds) / float64(u.SessionsPlayed)
	}
	_ = json.NewEncoder(w).Encode(res)
}

type runRow struct {
	SessionID  string `json:"sessionId"`
	Run        int    `json:"run"`
	NumPegs    int    `json:"numPegs"`
	NumColors  int    `json:"numColors"`
	Policy     string `json:"policy"`
	Status     string `json:"status"`
	Rounds     int    `json:"rounds"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// handleMyRuns lists the 50 most recent runs of the signed-in user.
func (s *Server) handleMyRuns(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(), `
        SELECT session_id, run, num_pegs, num_colors, policy, status, rounds, started_at, COALESCE(finished_at,'')
        FROM runs WHERE user_id=? ORDER BY started_at DESC, run DESC LIMIT 50`, currentUser(r).ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "db_error"})
		return
	}
	defer rows.Close()

	out := []runRow{}
	for rows.Next() {
		var rr runRow
		if err := rows.Scan(&rr.SessionID, &rr.Run, &rr.NumPegs, &rr.NumColors, &rr.Policy,
			&rr.Status, &rr.Rounds, &rr.StartedAt, &rr.FinishedAt); err != nil {
			log.Warn().Err(err).Msg("scan run row")
			continue
		}
		out = append(out, rr)
	}
	_ = json.NewEncoder(w).Encode(out)
}

// --------------------------- auth middleware --------------------------------

// withOptionalAuth decorates requests with user context if a valid JWT is
// present. It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if me, ok := s.authenticate(r); ok {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT for a user that still exists.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bearerOrCookie(r, s.cfg.CookieName) == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
				return
			}
			me, ok := s.authenticate(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Invalid token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me)))
		})
	}
}

// authenticate verifies the request's token and loads its user.
func (s *Server) authenticate(r *http.Request) (*authUser, bool) {
	tok := bearerOrCookie(r, s.cfg.CookieName)
	if tok == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, false
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, false
	}
	u, err := s.findUserByID(r.Context(), id)
	if err != nil {
		return nil, false
	}
	return &authUser{ID: u.ID, Username: u.Username}, true
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the auth cookie.
func bearerOrCookie(r *http.Request, cookie string) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}

// ------------------------------ JWT & cookies ------------------------------

// issueToken signs a JWT for u and sets it as the auth cookie.
func (s *Server) issueToken(w http.ResponseWriter, u *userRow) bool {
	exp := time.Now().Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	tok, err := t.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "sign_failed"})
		return false
	}
	s.setAuthCookie(w, tok, exp)
	return true
}

// setAuthCookie writes the auth cookie; an empty token deletes it.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	c := s.cookie(s.cfg.CookieName, token)
	if token == "" {
		c.MaxAge = -1
	} else {
		c.Expires = exp
	}
	http.SetCookie(w, c)
}

// cookie applies the shared security attributes. Production cookies are
// Secure and SameSite=None for cross-site clients.
func (s *Server) cookie(name, value string) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: http.SameSiteLaxMode,
	}
	if s.cfg.Production {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// ensureAnonID returns the anonymous cookie value, setting a new one if missing.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.cfg.AnonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	c := s.cookie(s.cfg.AnonCookieName, id)
	c.Expires = time.Now().Add(180 * 24 * time.Hour)
	http.SetCookie(w, c)
	return id
}

// claimAnonRuns moves guest runs to a user account after auth.
func (s *Server) claimAnonRuns(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" {
		return
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE runs SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		log.Warn().Err(err).Msg("claim anon runs")
	}
}

// ------------------------------- users -------------------------------------

// userRow matches the users table shape.
type userRow struct {
	ID             string
	Username       string
	PasswordHash   string
	CreatedAt      time.Time
	SessionsPlayed int
	Solved         int
	Contradictions int
	TotalRounds    int
}

const userColumns = `id, username, password_hash, created_at, sessions_played, solved, contradictions, total_rounds`

// createUser validates input, checks uniqueness, hashes the password and
// inserts a new user.
func (s *Server) createUser(ctx context.Context, username, pw string) (*userRow, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, errUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &userRow{ID: uuid.NewString(), Username: username, PasswordHash: string(h), CreatedAt: now}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, now.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Server) findUserByUsername(ctx context.Context, username string) (*userRow, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username)=lower(?)`, username))
}

func (s *Server) findUserByID(ctx context.Context, id string) (*userRow, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id))
}

func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created,
		&u.SessionsPlayed, &u.Solved, &u.Contradictions, &u.TotalRounds); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8-100 chars")
	}
	return nil
}

// bumpStats counts one finished run for userID (within tx).
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, state game.State, rounds int) error {
	solved, contradiction := 0, 0
	switch state {
	case game.StateSolved:
		solved = 1
	case game.StateContradiction:
		contradiction = 1
	}
	_, err := tx.ExecContext(ctx, `
        UPDATE users SET sessions_played = sessions_played + 1,
                         solved = solved + ?,
                         contradictions = contradictions + ?,
                         total_rounds = total_rounds + ?
        WHERE id=?`, solved, contradiction, rounds, userID)
	return err
}
