//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package sqlite provides a sqlite-backed store implementation.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/futurxplore/learnstate/log"
	"github.com/futurxplore/learnstate/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps values in a single key-value table.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the sqlite database at dbPath.
func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

// Get returns the value for key. Query faults are logged and report a
// miss.
func (s *Store) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Errorf("sqlite store: get %s: %v", key, err)
		}
		return "", false
	}
	return value, true
}

// Set upserts the value for key.
func (s *Store) Set(key, value string) error {
	const stmt = `
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`
	if _, err := s.db.Exec(stmt, key, value); err != nil {
		log.Errorf("sqlite store: set %s: %v", key, err)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(key string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		log.Errorf("sqlite store: delete %s: %v", key, err)
	}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
