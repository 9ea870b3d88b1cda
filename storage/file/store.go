//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package file provides a single-file JSON store implementation.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/futurxplore/learnstate/log"
	"github.com/futurxplore/learnstate/storage"
)

var _ storage.Store = (*Store)(nil)

// Store persists the whole key space as one JSON object on disk.
// Writes go through a temp file and rename so readers never observe a
// partial file. A corrupt or unreadable file degrades to an empty
// store rather than an error.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// New opens (or creates) the store at path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	s := &Store{path: path, values: make(map[string]string)}
	s.load()
	return s, nil
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Errorf("file store: read %s: %v", s.path, err)
		}
		return
	}
	if err := json.Unmarshal(raw, &s.values); err != nil {
		log.Errorf("file store: corrupt store file %s, starting empty: %v", s.path, err)
		s.values = make(map[string]string)
	}
}

func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// Get returns the value for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set writes the value for key and flushes to disk.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	if err := s.flush(); err != nil {
		log.Errorf("file store: persist %s: %v", key, err)
		return err
	}
	return nil
}

// Delete removes key and flushes to disk. Flush failures are logged;
// the in-memory removal stands either way.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		log.Errorf("file store: persist delete of %s: %v", key, err)
	}
}

// Close flushes any pending state.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}
