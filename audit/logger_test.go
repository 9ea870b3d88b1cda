//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package audit_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurxplore/learnstate/audit"
	"github.com/futurxplore/learnstate/internal/clock"
	"github.com/futurxplore/learnstate/storage/inmemory"
)

func newTestLogger(t *testing.T, opts ...audit.Option) (*audit.Logger, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	opts = append([]audit.Option{audit.WithClock(fake)}, opts...)
	return audit.NewLogger(inmemory.New(), opts...), fake
}

func TestLogAssignsIDAndDefaults(t *testing.T) {
	l, fake := newTestLogger(t)

	entry := l.Log(audit.Event{
		Action:   audit.ActionLoginSuccess,
		Resource: "user_account",
	}, "u1")

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, fake.Now(), entry.Timestamp)
	assert.Equal(t, audit.SeverityMedium, entry.Severity, "severity defaults to medium")
}

func TestEntriesAreNewestFirst(t *testing.T) {
	l, fake := newTestLogger(t)

	l.Log(audit.Event{Action: "first"}, "u1")
	fake.Advance(time.Minute)
	l.Log(audit.Event{Action: "second"}, "u1")
	fake.Advance(time.Minute)
	l.Log(audit.Event{Action: "third"}, "u1")

	entries := l.UserEntries("u1", 0)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Action)
	assert.Equal(t, "second", entries[1].Action)
	assert.Equal(t, "first", entries[2].Action)
}

func TestCapEvictsOldest(t *testing.T) {
	l, _ := newTestLogger(t, audit.WithMaxEntries(5))

	for i := 0; i < 8; i++ {
		l.Log(audit.Event{Action: fmt.Sprintf("action-%d", i)}, "u1")
	}

	entries := l.UserEntries("u1", 0)
	require.Len(t, entries, 5)
	assert.Equal(t, "action-7", entries[0].Action)
	assert.Equal(t, "action-3", entries[4].Action, "oldest three evicted")
}

func TestQueries(t *testing.T) {
	l, _ := newTestLogger(t)

	l.Log(audit.Event{Action: audit.ActionLoginSuccess, Severity: audit.SeverityLow}, "u1")
	l.Log(audit.Event{Action: audit.ActionConsentGiven, Severity: audit.SeverityHigh}, "u1")
	l.Log(audit.Event{Action: audit.ActionLoginFailed, Severity: audit.SeverityMedium}, "u2")
	l.Log(audit.Event{Action: audit.ActionDataDeleted, Severity: audit.SeverityHigh}, "u2")

	assert.Len(t, l.UserEntries("u1", 0), 2)
	assert.Len(t, l.UserEntries("u3", 0), 0)

	byAction := l.ByAction(audit.ActionLoginFailed, 0)
	require.Len(t, byAction, 1)
	assert.Equal(t, "u2", byAction[0].UserID)

	assert.Len(t, l.HighSeverity(0), 2)
	assert.Len(t, l.MinSeverity(audit.SeverityMedium, 0), 3)
	assert.Len(t, l.MinSeverity(audit.SeverityLow, 1), 1, "limit caps the result")
}

func TestClientInfoStamped(t *testing.T) {
	l, _ := newTestLogger(t, audit.WithClientInfo("203.0.113.9", "learnstate-test/1.0"))

	entry := l.Log(audit.Event{Action: audit.ActionLoginSuccess}, "u1")
	assert.Equal(t, "203.0.113.9", entry.IPAddress)
	assert.Equal(t, "learnstate-test/1.0", entry.UserAgent)
}

func TestPersistAndReload(t *testing.T) {
	store := inmemory.New()
	fake := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	l := audit.NewLogger(store, audit.WithClock(fake))
	l.Log(audit.Event{Action: audit.ActionAccountCreated}, "u1")
	l.Log(audit.Event{Action: audit.ActionChildProfileCreated}, "u1")

	// A fresh logger over the same store picks the entries back up.
	reloaded := audit.NewLogger(store, audit.WithClock(fake))
	entries := reloaded.LoadFromStorage()
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionChildProfileCreated, entries[0].Action)
}

func TestPurgeOld(t *testing.T) {
	l, fake := newTestLogger(t)

	l.Log(audit.Event{Action: "ancient"}, "u1")
	fake.Advance(400 * 24 * time.Hour)
	l.Log(audit.Event{Action: "recent"}, "u1")

	removed := l.PurgeOld(audit.DefaultRetention)
	assert.Equal(t, 1, removed)

	entries := l.UserEntries("u1", 0)
	require.Len(t, entries, 1)
	assert.Equal(t, "recent", entries[0].Action)
}

func TestExport(t *testing.T) {
	l, fake := newTestLogger(t)
	l.Log(audit.Event{Action: audit.ActionConsentGiven, Severity: audit.SeverityHigh}, "u1")
	l.Log(audit.Event{Action: audit.ActionLoginSuccess}, "u2")

	raw, err := l.Export("u1")
	require.NoError(t, err)

	var bundle audit.Export
	require.NoError(t, json.Unmarshal([]byte(raw), &bundle))
	assert.Equal(t, fake.Now(), bundle.ExportedAt.UTC())
	assert.Equal(t, 1, bundle.Total)
	require.Len(t, bundle.Entries, 1)
	assert.Equal(t, audit.ActionConsentGiven, bundle.Entries[0].Action)
}

func TestConvenienceHelpers(t *testing.T) {
	l, _ := newTestLogger(t)

	l.AccountCreated("u1", "dana@example.com")
	l.ChildProfileCreated("u1", "Milo", 9)
	l.DataDeleted("u1", "child_profile")
	l.ConsentGiven("u1", "data_collection")
	l.LessonCompleted("u1", "lesson-1", 92)

	entries := l.UserEntries("u1", 0)
	require.Len(t, entries, 5)

	high := l.HighSeverity(0)
	assert.Len(t, high, 2, "deletion and consent are high severity")

	lesson := l.ByAction(audit.ActionLessonCompleted, 0)
	require.Len(t, lesson, 1)
	assert.EqualValues(t, 92, lesson[0].Details["masteryScore"])
}

func TestClearAll(t *testing.T) {
	store := inmemory.New()
	l := audit.NewLogger(store)
	l.Log(audit.Event{Action: "x"}, "u1")

	l.ClearAll()
	assert.Empty(t, l.UserEntries("u1", 0))
	_, ok := store.Get(audit.DefaultStorageKey)
	assert.False(t, ok)
}
