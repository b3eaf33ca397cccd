// Package sqlite implements the submission store on a local SQLite file using the
// pure Go modernc.org/sqlite driver (no CGO).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/quizflow/internal/pubsub"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Store implements ports.SubmissionStore and ports.ChangeNotifier on SQLite.
// Change notifications are process-local.
type Store struct {
	db  *sql.DB
	hub *pubsub.Hub[struct{}]
	now func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithClock overrides the time source for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open connects to the database at path, creating parent directories,
// applying pragmas and creating the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s := &Store{
		db:  db,
		hub: pubsub.NewHub[struct{}](1),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database and releases watchers.
func (s *Store) Close() error {
	s.hub.Close()
	return s.db.Close()
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			nickname TEXT NOT NULL,
			result_title TEXT NOT NULL,
			-- Unix nanoseconds (UTC); sortable unlike RFC 3339 text with trimmed fractions.
			submitted_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON submissions(submitted_at DESC);`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert appends a record.
func (s *Store) Insert(ctx context.Context, nickname, resultTitle string) (*domain.Submission, error) {
	sub := domain.Submission{
		ID:          uuid.NewString(),
		Nickname:    nickname,
		ResultTitle: resultTitle,
		SubmittedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO submissions (id, nickname, result_title, submitted_at) VALUES (?, ?, ?, ?)",
		sub.ID, sub.Nickname, sub.ResultTitle, sub.SubmittedAt.UnixNano(),
	)
	if err != nil {
		return nil, domain.WriteFailure("insert", err)
	}

	s.hub.Publish(struct{}{})
	return &sub, nil
}

// List returns every record, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nickname, result_title, submitted_at FROM submissions ORDER BY submitted_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, domain.ReadFailure("list", err)
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		var (
			sub   domain.Submission
			nanos int64
		)
		if err := rows.Scan(&sub.ID, &sub.Nickname, &sub.ResultTitle, &nanos); err != nil {
			return nil, domain.ReadFailure("list", err)
		}
		sub.SubmittedAt = time.Unix(0, nanos).UTC()
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ReadFailure("list", err)
	}
	return out, nil
}

// CountByCategory reads the result_title column of every row and tallies it.
func (s *Store) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT result_title FROM submissions")
	if err != nil {
		return nil, domain.ReadFailure("count", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, domain.ReadFailure("count", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ReadFailure("count", err)
	}
	return domain.Tally(titles), nil
}

// DeleteAll removes every record.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM submissions"); err != nil {
		return domain.WriteFailure("delete_all", err)
	}
	s.hub.Publish(struct{}{})
	return nil
}

// Watch returns a channel signalled after every change made through this Store.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	return s.hub.SubscribeContext(ctx), nil
}
