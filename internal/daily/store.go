// apps/go-server/internal/daily/store.go
//
// SQL persistence for daily puzzle results (daily_results table).

package daily

import (
	"context"
	"database/sql"
)

// Result is one finished daily puzzle.
type Result struct {
	UserID       string `json:"userId"`
	Date         string `json:"date"`
	SecretIndex  int    `json:"secretIndex"`
	Guesses      int    `json:"guesses"`
	ElapsedMs    int    `json:"elapsedMs"`
	SolverRounds int    `json:"solverRounds"`
}

// Store reads and writes daily_results.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult stores r. A second result for the same user and date is
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results
            (user_id, date, secret_index, guesses, elapsed_ms, solver_rounds)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.UserID, r.Date, r.SecretIndex, r.Guesses, r.ElapsedMs, r.SolverRounds,
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	UserID       string `json:"userId"`
	Guesses      int    `json:"guesses"`
	ElapsedMs    int    `json:"elapsedMs"`
	SolverRounds int    `json:"solverRounds"`
}

// Leaderboard returns the best results for date: fewest guesses, then
// fastest, then earliest. limit <= 0 means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT user_id, guesses, elapsed_ms, solver_rounds
        FROM daily_results
        WHERE date=?
        ORDER BY guesses ASC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Guesses, &r.ElapsedMs, &r.SolverRounds); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
