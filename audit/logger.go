//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/futurxplore/learnstate/internal/clock"
	"github.com/futurxplore/learnstate/log"
	"github.com/futurxplore/learnstate/storage"
	"github.com/futurxplore/learnstate/telemetry/metric"
)

const (
	// DefaultStorageKey is the storage key of the persisted log.
	DefaultStorageKey = "futurxplore_audit_logs"
	// DefaultMaxEntries caps the log; oldest entries are evicted first.
	DefaultMaxEntries = 1000
	// DefaultRetention is the age cutoff for PurgeOld.
	DefaultRetention = 365 * 24 * time.Hour
)

// Logger keeps the newest-first in-memory log mirrored to storage on
// every append.
type Logger struct {
	mu         sync.RWMutex
	store      storage.Store
	storageKey string
	maxEntries int
	clock      clock.Clock
	clientIP   string
	userAgent  string
	entries    []Entry
}

// Option configures the logger.
type Option func(*Logger)

// WithStorageKey overrides the persisted-log storage key.
func WithStorageKey(key string) Option {
	return func(l *Logger) {
		if key != "" {
			l.storageKey = key
		}
	}
}

// WithMaxEntries overrides the log cap.
func WithMaxEntries(n int) Option {
	return func(l *Logger) {
		if n > 0 {
			l.maxEntries = n
		}
	}
}

// WithClock injects a clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(l *Logger) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithClientInfo stamps every entry with the given client metadata.
func WithClientInfo(ip, userAgent string) Option {
	return func(l *Logger) {
		l.clientIP = ip
		l.userAgent = userAgent
	}
}

// NewLogger creates an audit logger over the given store and loads any
// persisted entries.
func NewLogger(store storage.Store, options ...Option) *Logger {
	l := &Logger{
		store:      store,
		storageKey: DefaultStorageKey,
		maxEntries: DefaultMaxEntries,
		clock:      clock.System{},
	}
	for _, option := range options {
		option(l)
	}
	l.LoadFromStorage()
	return l
}

// Log appends an entry built from the event, evicts past the cap and
// persists the whole log. Entries are prepended: the log is ordered
// newest-first by insertion.
func (l *Logger) Log(event Event, userID string) Entry {
	severity := event.Severity
	if severity == "" {
		severity = SeverityMedium
	}
	details := event.Details
	if details == nil {
		details = map[string]any{}
	}
	entry := Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    event.Action,
		Resource:  event.Resource,
		Details:   details,
		IPAddress: l.clientIP,
		UserAgent: l.userAgent,
		Timestamp: l.clock.Now(),
		Severity:  severity,
	}

	l.mu.Lock()
	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[:l.maxEntries]
	}
	l.persistLocked()
	l.mu.Unlock()

	metric.AuditEntries.Add(context.Background(), 1)
	log.Debugf("audit: %s by %s on %s", event.Action, userID, event.Resource)
	return entry
}

func (l *Logger) persistLocked() {
	if err := storage.SetJSON(l.store, l.storageKey, l.entries); err != nil {
		log.Errorf("audit: failed to persist log: %v", err)
	}
}

// LoadFromStorage replaces the in-memory log with the persisted
// content and returns it. Called once at construction; exposed for
// hosts that share a store across processes.
func (l *Logger) LoadFromStorage() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []Entry
	if storage.GetJSON(l.store, l.storageKey, &entries) {
		l.entries = entries
	}
	return l.snapshotLocked(len(l.entries))
}

func (l *Logger) snapshotLocked(limit int) []Entry {
	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]Entry, limit)
	copy(out, l.entries[:limit])
	return out
}

// UserEntries returns the most recent entries for a user, newest
// first, up to limit.
func (l *Logger) UserEntries(userID string, limit int) []Entry {
	return l.filter(limit, func(e Entry) bool { return e.UserID == userID })
}

// ByAction returns the most recent entries with the given action,
// newest first, up to limit.
func (l *Logger) ByAction(action string, limit int) []Entry {
	return l.filter(limit, func(e Entry) bool { return e.Action == action })
}

// HighSeverity returns the most recent high-severity entries, newest
// first, up to limit.
func (l *Logger) HighSeverity(limit int) []Entry {
	return l.MinSeverity(SeverityHigh, limit)
}

// MinSeverity returns the most recent entries at or above the given
// severity, newest first, up to limit.
func (l *Logger) MinSeverity(min Severity, limit int) []Entry {
	return l.filter(limit, func(e Entry) bool { return e.Severity.rank() >= min.rank() })
}

// filter returns the newest entries satisfying keep. A limit <= 0
// means no limit.
func (l *Logger) filter(limit int, keep func(Entry) bool) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, 0)
	for _, e := range l.entries {
		if limit > 0 && len(out) == limit {
			break
		}
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// PurgeOld removes entries older than the given age and persists.
func (l *Logger) PurgeOld(age time.Duration) int {
	cutoff := l.clock.Now().Add(-age)
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(l.entries) - len(kept)
	l.entries = kept
	if removed > 0 {
		l.persistLocked()
		log.Infof("audit: purged %d entries older than %s", removed, age)
	}
	return removed
}

// Export serializes the log for a compliance or data-portability
// request. An empty userID exports everything.
func (l *Logger) Export(userID string) (string, error) {
	var entries []Entry
	if userID == "" {
		l.mu.RLock()
		entries = l.snapshotLocked(len(l.entries))
		l.mu.RUnlock()
	} else {
		entries = l.UserEntries(userID, l.maxEntries)
	}
	bundle := Export{
		ExportedAt: l.clock.Now(),
		Total:      len(entries),
		Entries:    entries,
	}
	raw, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal audit export: %w", err)
	}
	return string(raw), nil
}

// ClearAll empties the log in memory and in storage. Used for account
// deletion.
func (l *Logger) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.store.Delete(l.storageKey)
	log.Info("audit: cleared all entries")
}
