// Package storage persists finished runs and knowledge wallets in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNoWallet is returned when a player has never saved any knowledge.
var ErrNoWallet = errors.New("storage: no wallet for player")

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one recorded attempt. A continued run keeps its ID and is updated
// in place when it ends again.
type Run struct {
	ID        string
	Player    string
	Character string
	Score     int
	Semester  int
	Knowledge int
	Continues int
	CreatedAt time.Time
}

// RunStats aggregates all recorded runs.
type RunStats struct {
	Runs         int
	HighScore    int
	AvgScore     float64
	BestSemester int
	LastPlayed   time.Time
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			character TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			semester INTEGER NOT NULL DEFAULT 1,
			knowledge INTEGER NOT NULL DEFAULT 0,
			continues INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player);

		CREATE TABLE IF NOT EXISTS wallets (
			player TEXT PRIMARY KEY,
			knowledge INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
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

// SaveRun inserts the run, or updates it if its ID already exists.
// An empty ID gets a fresh one; the stored ID is returned.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, player, character, score, semester, knowledge, continues)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			score = excluded.score,
			semester = excluded.semester,
			knowledge = excluded.knowledge,
			continues = excluded.continues,
			updated_at = CURRENT_TIMESTAMP`,
		r.ID, r.Player, r.Character, r.Score, r.Semester, r.Knowledge, r.Continues,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

// TopRuns returns the best runs, highest score first.
func (s *Store) TopRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, player, character, score, semester, knowledge, continues, created_at
		 FROM runs
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		limit,
	)
}

// PlayerRuns returns a player's most recent runs.
func (s *Store) PlayerRuns(player string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, player, character, score, semester, knowledge, continues, created_at
		 FROM runs
		 WHERE player = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		player, limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Player, &r.Character, &r.Score, &r.Semester,
			&r.Knowledge, &r.Continues, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// HighScore returns the best score ever recorded, or 0.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM runs").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot get high score: %w", err)
	}
	return int(score.Int64), nil
}

// Stats aggregates every recorded run.
func (s *Store) Stats() (RunStats, error) {
	var st RunStats
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(MAX(semester), 0), MAX(created_at)
		 FROM runs`,
	).Scan(&st.Runs, &st.HighScore, &st.AvgScore, &st.BestSemester, &lastPlayed)
	if err != nil {
		return RunStats{}, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	st.LastPlayed = parseTime(lastPlayed)
	return st, nil
}

// ClearRuns deletes the run history. Wallets are kept.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Knowledge returns the player's saved wallet, or ErrNoWallet.
func (s *Store) Knowledge(player string) (int, error) {
	var k int
	err := s.db.QueryRow("SELECT knowledge FROM wallets WHERE player = ?", player).Scan(&k)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoWallet
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot read wallet: %w", err)
	}
	return k, nil
}

// SaveKnowledge stores the player's wallet.
func (s *Store) SaveKnowledge(player string, knowledge int) error {
	if knowledge < 0 {
		knowledge = 0
	}
	_, err := s.db.Exec(
		`INSERT INTO wallets (player, knowledge) VALUES (?, ?)
		 ON CONFLICT(player) DO UPDATE SET
			knowledge = excluded.knowledge,
			updated_at = CURRENT_TIMESTAMP`,
		player, knowledge,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save wallet: %w", err)
	}
	return nil
}

// parseTime handles both driver return types for DATETIME columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
