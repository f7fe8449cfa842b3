package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const createVotesTableSQL = `CREATE TABLE IF NOT EXISTS votes (
	location  TEXT PRIMARY KEY,
	yes_count INTEGER NOT NULL DEFAULT 0,
	no_count  INTEGER NOT NULL DEFAULT 0
)`

const selectVotesSQL = `SELECT location, yes_count, no_count FROM votes`

const upsertVoteSQL = `INSERT INTO votes (location, yes_count, no_count)
VALUES (?, ?, ?)
ON CONFLICT(location) DO UPDATE SET
	yes_count = excluded.yes_count,
	no_count  = excluded.no_count`

type voteRow struct {
	Location string `db:"location"`
	Yes      int    `db:"yes_count"`
	No       int    `db:"no_count"`
}

// SQLiteBackend stores the ledger in a single SQLite table.
type SQLiteBackend struct {
	db *sqlx.DB
}

// OpenSQLite opens (and if needed creates) the ledger database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.Exec(createVotesTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create votes table: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Load() (Tallies, error) {
	var rows []voteRow
	if err := s.db.Select(&rows, selectVotesSQL); err != nil {
		return nil, fmt.Errorf("select votes: %w", err)
	}
	tallies := make(Tallies, len(rows))
	for _, r := range rows {
		tallies[r.Location] = Tally{Yes: r.Yes, No: r.No}
	}
	return tallies, nil
}

// Save writes every location in one transaction. Locations are never
// deleted, so upserting all rows rewrites the full ledger.
func (s *SQLiteBackend) Save(t Tallies) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for location, tally := range t {
		if _, err := tx.Exec(upsertVoteSQL, location, tally.Yes, tally.No); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert %q: %w", location, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
