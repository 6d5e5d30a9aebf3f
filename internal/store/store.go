// Package store persists completed module results and session summaries to a
// local SQLite database. The assessment core only writes here — at module
// completion and session end — and never reads back mid-session; reads exist
// for the report command.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fieldside/sideline/internal/exam"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	modules     TEXT NOT NULL,
	total_score INTEGER NOT NULL DEFAULT 0,
	saved_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS module_results (
	session_id TEXT NOT NULL,
	module     TEXT NOT NULL,
	score      INTEGER NOT NULL,
	raw        TEXT NOT NULL,
	saved_at   TEXT NOT NULL,
	PRIMARY KEY (session_id, module)
);
`

// Store wraps the SQLite database.
type Store struct {
	db    *sql.DB
	clock func() time.Time
}

// Open creates (or reuses) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure db dir: %w", err)
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db, clock: func() time.Time { return time.Now().UTC() }}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveModuleResult upserts one completed module's raw responses and score.
func (s *Store) SaveModuleResult(sessionID string, result exam.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("store: marshal %s result: %w", result.Module(), err)
	}
	_, err = s.db.Exec(`
		INSERT INTO module_results (session_id, module, score, raw, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id, module) DO UPDATE
		SET score = excluded.score, raw = excluded.raw, saved_at = excluded.saved_at`,
		sessionID, string(result.Module()), result.Score(), string(raw),
		s.clock().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: save %s result: %w", result.Module(), err)
	}
	return nil
}

// SaveSession upserts the session summary row.
func (s *Store) SaveSession(session *exam.Session) error {
	modules, err := json.Marshal(session.Modules)
	if err != nil {
		return fmt.Errorf("store: marshal module order: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO sessions (id, type, created_at, modules, total_score, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET total_score = excluded.total_score, saved_at = excluded.saved_at`,
		session.ID, string(session.Type), session.CreatedAt.Format(time.RFC3339),
		string(modules), session.TotalScore(), s.clock().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: save session %s: %w", session.ID, err)
	}
	return nil
}

// SessionRow is one stored session summary.
type SessionRow struct {
	ID         string
	Type       string
	CreatedAt  string
	Modules    []string
	TotalScore int
}

// ModuleRow is one stored module result.
type ModuleRow struct {
	Module string
	Score  int
	Raw    string
}

// ListSessions returns stored sessions, newest first.
func (s *Store) ListSessions() ([]SessionRow, error) {
	rows, err := s.db.Query(`
		SELECT id, type, created_at, modules, total_score
		FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var row SessionRow
		var modules string
		if err := rows.Scan(&row.ID, &row.Type, &row.CreatedAt, &modules, &row.TotalScore); err != nil {
			return nil, fmt.Errorf("store: scan session: %w", err)
		}
		if err := json.Unmarshal([]byte(modules), &row.Modules); err != nil {
			return nil, fmt.Errorf("store: decode module order: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SessionResults returns the stored module rows for one session in battery
// order where possible.
func (s *Store) SessionResults(sessionID string) ([]ModuleRow, error) {
	rows, err := s.db.Query(`
		SELECT module, score, raw
		FROM module_results WHERE session_id = ? ORDER BY saved_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store: session results: %w", err)
	}
	defer rows.Close()

	var out []ModuleRow
	for rows.Next() {
		var row ModuleRow
		if err := rows.Scan(&row.Module, &row.Score, &row.Raw); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
