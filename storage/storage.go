//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package storage defines the key-value store contract shared by the
// session, autosave and audit components.
//
// Stores hold whole serialized values under string keys. Every write
// replaces the entire value for its key; there is no locking or
// versioning across processes, so concurrent writers are
// last-writer-wins. Implementations must not panic and must not leak
// backend faults to callers beyond the returned error.
package storage

import (
	"encoding/json"

	"github.com/futurxplore/learnstate/log"
)

// Store is the adapter over a persistent key-value backend.
type Store interface {
	// Get returns the raw value for key. The boolean reports whether
	// the key exists. Backend faults are logged by the implementation
	// and surface as a miss.
	Get(key string) (string, bool)

	// Set writes the raw value for key, replacing any prior value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(key string)

	// Close releases backend resources.
	Close() error
}

// GetJSON reads key and unmarshals it into out. Missing keys and
// corrupt payloads both report false: callers treat malformed
// persisted data the same as absent data.
func GetJSON(s Store, key string, out any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Errorf("storage: corrupt value at %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON marshals v and writes it under key.
func SetJSON(s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, string(raw))
}
