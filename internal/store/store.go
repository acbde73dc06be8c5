// Package store is the lesson store: lessons, pregenerated exercise
// pools, and session results in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open connects to the database at dsn, applies pragmas, and migrates
// the schema. A failure here is fatal to starting a lesson.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user desktop use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS lessons (
			id      TEXT PRIMARY KEY,
			title   TEXT NOT NULL,
			subject TEXT NOT NULL,
			grade   INTEGER NOT NULL,
			topic   TEXT NOT NULL,
			theory  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exercises (
			id          TEXT PRIMARY KEY,
			lesson_id   TEXT NOT NULL REFERENCES lessons(id),
			phase       TEXT NOT NULL,
			position    INTEGER NOT NULL,
			statement   TEXT NOT NULL,
			answer      TEXT NOT NULL,
			difficulty  TEXT NOT NULL,
			hint1       TEXT NOT NULL DEFAULT '',
			hint2       TEXT NOT NULL DEFAULT '',
			hint3       TEXT NOT NULL DEFAULT '',
			explanation TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_lesson_phase
			ON exercises(lesson_id, phase, position)`,
		`CREATE TABLE IF NOT EXISTS session_results (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			lesson_id        TEXT NOT NULL,
			started_at       TIMESTAMP NOT NULL,
			duration_sec     INTEGER NOT NULL,
			score            INTEGER NOT NULL,
			practice_score   INTEGER NOT NULL,
			assessment_score INTEGER NOT NULL,
			answers          INTEGER NOT NULL,
			correct          INTEGER NOT NULL,
			completed        INTEGER NOT NULL,
			aborted          INTEGER NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database path in priority order: AVATAR_DB,
// $XDG_DATA_HOME/avatar/avatar.db, ~/.local/share/avatar/avatar.db.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("AVATAR_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "avatar", "avatar.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if needed.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
