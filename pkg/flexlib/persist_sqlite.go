package flexlib

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// blobKey is the single row key under which the record blob is kept.
const blobKey = "reminders"

// SQLiteStorage keeps the blob in a one-row key/value table inside a
// SQLite database. Useful when the host already manages a database file
// and wants reminder state to travel with it.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at dbPath and ensures
// the storage table exists.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS storage (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create storage table: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// Load returns the saved blob, or nil when nothing has been saved yet.
func (s *SQLiteStorage) Load() ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT value FROM storage WHERE key = ?`, blobKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load blob: %w", err)
	}
	return data, nil
}

// Save replaces the blob in a single statement; SQLite makes the write
// atomic.
func (s *SQLiteStorage) Save(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, blobKey, data)
	if err != nil {
		return fmt.Errorf("save blob: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

var _ Storage = (*SQLiteStorage)(nil)
