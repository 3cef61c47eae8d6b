// Package score persists finished runs in SQLite and answers best-score and
// leaderboard queries.
package score

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tomz197/tether/internal/loop/config"
)

// ErrNotConfigured is returned by a nil or closed Store.
var ErrNotConfigured = errors.New("score store is not configured")

// Result is one finished run.
type Result struct {
	ID        uuid.UUID
	Username  string
	Score     int
	Duration  time.Duration
	CreatedAt time.Time
}

// Recorder is what a client needs to save and compare runs.
//
//go:generate go tool mockgen -destination=./mocks/recorder_mock.go -package=mocks . Recorder
type Recorder interface {
	Record(ctx context.Context, r Result) (Result, error)
	Best(ctx context.Context) (int, error)
}

// Store persists runs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ Recorder = (*Store)(nil)

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	username    TEXT NOT NULL,
	score       INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_score ON runs (score DESC, created_at ASC);`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite score store and creates the schema if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return err
}

// Record inserts a run, assigning an ID and timestamp when missing, and
// returns the stored result.
func (s *Store) Record(ctx context.Context, r Result) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Result{}, ErrNotConfigured
	}
	if r.Score < 0 {
		return Result{}, fmt.Errorf("score must not be negative")
	}
	r.Username = normalizeUsername(r.Username)
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO runs (id, username, score, duration_ms, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID.String(),
		r.Username,
		r.Score,
		r.Duration.Milliseconds(),
		toMillis(r.CreatedAt),
	)
	if err != nil {
		return Result{}, fmt.Errorf("insert run: %w", err)
	}
	return r, nil
}

// Best returns the highest recorded score, or 0 when there are no runs.
func (s *Store) Best(ctx context.Context) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, ErrNotConfigured
	}
	var best sql.NullInt64
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT MAX(score) FROM runs`).Scan(&best); err != nil {
		return 0, fmt.Errorf("query best: %w", err)
	}
	return int(best.Int64), nil
}

// Top returns up to n runs, best first. Ties go to the earlier run.
func (s *Store) Top(ctx context.Context, n int) ([]Result, error) {
	if s == nil || s.sqlDB == nil {
		return nil, ErrNotConfigured
	}
	if n <= 0 {
		n = config.LeaderboardSize
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, username, score, duration_ms, created_at FROM runs
		 ORDER BY score DESC, created_at ASC LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query top: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			id         string
			r          Result
			durationMs int64
			createdAt  int64
		)
		if err := rows.Scan(&id, &r.Username, &r.Score, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse run id %q: %w", id, err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = fromMillis(createdAt)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return results, nil
}

// normalizeUsername trims and truncates a display name.
func normalizeUsername(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "anonymous"
	}
	if utf8.RuneCountInString(name) > config.MaxUsernameLength {
		name = string([]rune(name)[:config.MaxUsernameLength])
	}
	return name
}
