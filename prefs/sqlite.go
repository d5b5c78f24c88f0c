package prefs

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cinema-cli/cinema/filesystem"
	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// SQLiteStore persists preferences in a single sqlite table, one row per key.
type SQLiteStore struct {
	accessors
	DB *sql.DB
}

// NewSQLiteStore opens the database at path and migrates it to the current schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := filesystem.API().MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("prefs: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStore{DB: db}
	s.accessors = accessors{b: s}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prefs: migration failed: %w", err)
	}

	return s, nil
}

// dsn builds a file URI for path, escaping characters that would end the path early.
func dsn(path string) string {
	query := url.Values{}
	query.Add("_pragma", "journal_mode(WAL)")
	query.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", (5 * time.Second).Milliseconds()))
	query.Add("_pragma", "synchronous(NORMAL)")

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}

	u := url.URL{
		Scheme:   "file",
		Path:     slashed,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("prefs: sqlite open failed: %w", err)
	}

	// a single writer keeps concurrent puts from tripping over SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prefs: sqlite ping failed: %w", err)
	}

	return db, nil
}

func (s *SQLiteStore) migrate() error {
	var current int
	if err := s.DB.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return err
	}

	if current >= schemaVersion {
		return nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS prefs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	if _, err := tx.Exec(schema); err != nil {
		return err
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) load(key string) (any, bool, error) {
	var value string
	err := s.DB.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) save(key string, value any) error {
	query := `
	INSERT INTO prefs (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
	`
	_, err := s.DB.Exec(query, key, fmt.Sprint(value), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) remove(key string) error {
	_, err := s.DB.Exec("DELETE FROM prefs WHERE key = ?", key)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}
