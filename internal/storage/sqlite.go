// Package storage provides SQLite-based persistence for the replay journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrReplayNotFound is returned when no replay has the requested ID.
var ErrReplayNotFound = errors.New("storage: replay not found")

// Store manages the SQLite database connection for the replay journal.
type Store struct {
	db *sql.DB
}

// Replay is the header of one journaled game: everything needed to rebuild
// the session except the inputs.
type Replay struct {
	ID        int64
	Variant   string
	Seed      int64
	BoardW    int
	BoardH    int
	CycleMS   int
	PollMS    int
	Config    []byte // Effective game config as YAML
	Polls     int    // Poll intervals played
	CreatedAt time.Time
}

// InputRecord is one action applied on a given poll.
type InputRecord struct {
	Poll   int64
	Action string
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			variant TEXT NOT NULL,
			seed INTEGER NOT NULL,
			board_w INTEGER NOT NULL,
			board_h INTEGER NOT NULL,
			cycle_ms INTEGER NOT NULL,
			poll_ms INTEGER NOT NULL,
			config TEXT NOT NULL DEFAULT '',
			polls INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_variant ON replays(variant);

		CREATE TABLE IF NOT EXISTS replay_inputs (
			replay_id INTEGER NOT NULL REFERENCES replays(id) ON DELETE CASCADE,
			poll_index INTEGER NOT NULL,
			action TEXT NOT NULL,
			PRIMARY KEY (replay_id, poll_index)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay records a replay header and its inputs in one transaction.
// Returns the ID of the inserted replay.
func (s *Store) SaveReplay(r Replay, inputs []InputRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	result, err := tx.Exec(
		`INSERT INTO replays (variant, seed, board_w, board_h, cycle_ms, poll_ms, config, polls)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Variant, r.Seed, r.BoardW, r.BoardH, r.CycleMS, r.PollMS, string(r.Config), r.Polls,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO replay_inputs (replay_id, poll_index, action) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare input insert: %w", err)
	}
	defer stmt.Close()

	for _, in := range inputs {
		if _, err := stmt.Exec(id, in.Poll, in.Action); err != nil {
			return 0, fmt.Errorf("storage: cannot save input at poll %d: %w", in.Poll, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit replay: %w", err)
	}

	return id, nil
}

const replayColumns = `id, variant, seed, board_w, board_h, cycle_ms, poll_ms, config, polls, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReplay(row rowScanner) (Replay, error) {
	var r Replay
	var cfg string
	var createdAt any
	err := row.Scan(&r.ID, &r.Variant, &r.Seed, &r.BoardW, &r.BoardH,
		&r.CycleMS, &r.PollMS, &cfg, &r.Polls, &createdAt)
	if err != nil {
		return r, err
	}
	r.Config = []byte(cfg)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Replay retrieves a replay header by ID.
func (s *Store) Replay(id int64) (*Replay, error) {
	r, err := scanReplay(s.db.QueryRow(
		`SELECT `+replayColumns+` FROM replays WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrReplayNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	return &r, nil
}

// RecentReplays retrieves the most recent replay headers.
func (s *Store) RecentReplays(limit int) ([]Replay, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+replayColumns+`
		 FROM replays
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var replays []Replay
	for rows.Next() {
		r, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		replays = append(replays, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return replays, nil
}

// ReplayInputs retrieves the inputs of a replay ordered by poll index.
func (s *Store) ReplayInputs(id int64) ([]InputRecord, error) {
	rows, err := s.db.Query(
		`SELECT poll_index, action
		 FROM replay_inputs
		 WHERE replay_id = ?
		 ORDER BY poll_index`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query inputs: %w", err)
	}
	defer rows.Close()

	var inputs []InputRecord
	for rows.Next() {
		var in InputRecord
		if err := rows.Scan(&in.Poll, &in.Action); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		inputs = append(inputs, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return inputs, nil
}

// DeleteReplay removes a replay and its inputs.
func (s *Store) DeleteReplay(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.Exec("DELETE FROM replay_inputs WHERE replay_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete inputs: %w", err)
	}

	res, err := tx.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: id %d", ErrReplayNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// ReplayStats contains aggregated statistics for one variant.
type ReplayStats struct {
	Variant    string
	Games      int
	TotalPolls int64
	LastPlayed time.Time
}

// Stats retrieves journal statistics grouped by variant.
func (s *Store) Stats() (map[string]*ReplayStats, error) {
	rows, err := s.db.Query(
		`SELECT variant, COUNT(*), SUM(polls), MAX(created_at)
		 FROM replays
		 GROUP BY variant`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get replay stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ReplayStats)
	for rows.Next() {
		var st ReplayStats
		var lastPlayed any
		if err := rows.Scan(&st.Variant, &st.Games, &st.TotalPolls, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Variant] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
