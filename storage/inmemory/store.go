//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory store implementation.
package inmemory

import (
	"sync"

	"github.com/futurxplore/learnstate/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps values in a mutex-guarded map. State is lost when the
// process exits; use the file, sqlite or redis stores for durability.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set writes the value for key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
