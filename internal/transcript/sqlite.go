package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nadzzz/teacherbot/internal/language"
	"github.com/nadzzz/teacherbot/internal/message"
)

// SQLiteStore keeps transcripts in an SQLite database so they survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// A single connection serialises writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			question TEXT NOT NULL,
			language_code TEXT NOT NULL,
			backend TEXT NOT NULL,
			prompt TEXT NOT NULL,
			answer TEXT NOT NULL,
			latency_sec REAL NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, id);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
	}
	return nil
}

// Append inserts turn as the newest row of the session.
func (s *SQLiteStore) Append(ctx context.Context, sessionID string, turn message.Turn) error {
	r := turn.Response
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, question, language_code, backend, prompt, answer, latency_sec, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, turn.Question, r.Language.Code, r.Backend, r.Prompt, r.Answer, r.LatencySec, r.Error,
		turn.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}
	return nil
}

// List returns the session's turns, most recent first. Language codes that
// are no longer supported read back as the fallback language.
func (s *SQLiteStore) List(ctx context.Context, sessionID string) ([]message.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question, language_code, backend, prompt, answer, latency_sec, error, created_at
		 FROM turns WHERE session_id = ? ORDER BY id DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var turns []message.Turn
	for rows.Next() {
		var (
			t       message.Turn
			code    string
			created int64
		)
		if err := rows.Scan(&t.Question, &code, &t.Response.Backend, &t.Response.Prompt,
			&t.Response.Answer, &t.Response.LatencySec, &t.Response.Error, &created); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		t.Response.Language, _ = language.Lookup(code)
		t.CreatedAt = time.Unix(0, created).UTC()
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}
	return turns, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
